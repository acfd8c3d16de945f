// Copyright (C) 2022, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

const (
	DefaultPerms755    = 0o755
	WriteReadReadPerms = 0o644
	UserOnlyPerms      = 0o750

	AppName     = "flattener"
	BaseDirName = ".flattener"
	LogDir      = "logs"
	LogFileName = "flattener.log"

	// EnvHome overrides the base directory (default ~/.flattener)
	EnvHome = "FLATTENER_HOME"
	// EnvPrefix is the prefix viper uses for environment overrides
	EnvPrefix = "FLATTENER"

	DefaultConfigFileName = "config"
	DefaultConfigFileType = "yaml"

	MaxLogFileSize   = 4
	MaxNumOfLogFiles = 5
	RetainOldFiles   = 0 // retain all old log files

	DefaultIgnoreFile = ".gitignore"
	GitDir            = ".git"

	// FormatVersion is written into every snapshot's metadata
	FormatVersion = "1.0"

	// CreatedAtLayout is ISO-8601 with microseconds and no zone
	CreatedAtLayout = "2006-01-02T15:04:05.000000"

	// HeaderMarker opens every compressed-text snapshot and part file
	HeaderMarker  = "# Project Snapshot"
	CommentPrefix = "#"

	// PayloadLineWidth is the column width base64 payload lines are wrapped at
	PayloadLineWidth = 76

	// PartHeaderReserve is subtracted from --max-size to leave room for the part header
	PartHeaderReserve = 200
	PartInfix         = "_part"
	DefaultPartExt    = ".txt"

	// BinarySniffSize is how many leading bytes are inspected for binary detection
	BinarySniffSize = 8192
	// BinaryThreshold is the maximum fraction of non-text bytes a text file may contain
	BinaryThreshold = 0.3

	FingerprintLength = 16

	MaxConflictExamples = 5

	MaxReportExtensions  = 10
	MaxReportDirDepth    = 3
	MaxReportDirectories = 15

	NoExtensionLabel = "(none)"

	StdinPath = "-"
)

// Conflict choices offered when restored files already exist.
const (
	OverwriteAll = "Overwrite all"
	SkipAll      = "Skip all"
	Cancel       = "Cancel"
)

// Restore policies accepted by the restore.policy config key.
const (
	PolicyPrompt = "prompt"
	PolicyForce  = "force"
	PolicySkip   = "skip"
)
