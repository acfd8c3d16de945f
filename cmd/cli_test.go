// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd_test

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/luxfi/flattener/cmd"
	"github.com/luxfi/flattener/internal/testutils"
	"github.com/luxfi/flattener/pkg/constants"
	"github.com/luxfi/flattener/pkg/prompts"
	"github.com/luxfi/flattener/pkg/report"
	ginkgo "github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func run(stdin io.Reader, args ...string) result {
	var stdout, stderr bytes.Buffer
	code := cmd.Run(args, stdin, &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(path, content string) {
	gomega.Expect(os.MkdirAll(filepath.Dir(path), 0o755)).Should(gomega.Succeed())
	gomega.Expect(os.WriteFile(path, []byte(content), 0o644)).Should(gomega.Succeed())
}

func readFile(path string) string {
	data, err := os.ReadFile(path)
	gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
	return string(data)
}

var _ = ginkgo.Describe("[flattener]", func() {
	var (
		workDir string
		project string
	)

	ginkgo.BeforeEach(func() {
		var err error
		workDir, err = os.MkdirTemp("", "flattener-cli")
		gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
		ginkgo.DeferCleanup(os.RemoveAll, workDir)

		home := filepath.Join(workDir, "home")
		gomega.Expect(os.Setenv(constants.EnvHome, home)).Should(gomega.Succeed())
		ginkgo.DeferCleanup(os.Unsetenv, constants.EnvHome)
		ginkgo.DeferCleanup(os.Unsetenv, prompts.EnvNonInteractive)

		project = filepath.Join(workDir, "project")
		writeFile(filepath.Join(project, ".gitignore"), "*.log\nbuild/\n")
		writeFile(filepath.Join(project, "main.go"), "package main\n\nfunc main() {}\n")
		writeFile(filepath.Join(project, "pkg", "util.go"), "package pkg\n")
		writeFile(filepath.Join(project, "pkg", "util_test.go"), "package pkg\n")
		writeFile(filepath.Join(project, "README.md"), "# Demo\n\nGrüße\n")
		writeFile(filepath.Join(project, "debug.log"), "noise\n")
		writeFile(filepath.Join(project, "build", "out.txt"), "artifact\n")
		writeFile(filepath.Join(project, "logo.bin"), string(make([]byte, 512)))
	})

	ginkgo.It("restores a JSON snapshot byte for byte", func() {
		out := filepath.Join(workDir, "snap.json")
		res := run(nil, cmd.FlattenCmd, "-s", project, "-o", out)
		gomega.Expect(res.code).Should(gomega.Equal(0), res.stderr)
		gomega.Expect(res.stdout).Should(gomega.ContainSubstring("Using .gitignore rules (2 patterns)"))
		gomega.Expect(res.stdout).Should(gomega.ContainSubstring("Found 5 text files"))
		gomega.Expect(res.stdout).Should(gomega.ContainSubstring("Output: " + out))

		target := filepath.Join(workDir, "restored")
		res = run(nil, cmd.RestoreCmd, "-i", out, "-t", target)
		gomega.Expect(res.code).Should(gomega.Equal(0), res.stderr)
		gomega.Expect(res.stdout).Should(gomega.ContainSubstring("Restored: 5, Skipped: 0, Errors: 0"))

		for _, rel := range []string{"main.go", "pkg/util.go", "pkg/util_test.go", "README.md", ".gitignore"} {
			gomega.Expect(readFile(filepath.Join(target, rel))).Should(gomega.Equal(readFile(filepath.Join(project, rel))))
		}
		for _, rel := range []string{"debug.log", "build/out.txt", "logo.bin"} {
			gomega.Expect(filepath.Join(target, rel)).ShouldNot(gomega.BeAnExistingFile())
		}
	})

	ginkgo.It("drops test files with --no-tests", func() {
		out := filepath.Join(workDir, "snap.json")
		res := run(nil, cmd.FlattenCmd, "-s", project, "-o", out, "--no-tests", "-v")
		gomega.Expect(res.code).Should(gomega.Equal(0), res.stderr)
		gomega.Expect(res.stdout).Should(gomega.ContainSubstring("[skip test] pkg/util_test.go"))
		gomega.Expect(res.stdout).Should(gomega.ContainSubstring("[skip binary] logo.bin"))
		gomega.Expect(readFile(out)).ShouldNot(gomega.ContainSubstring("util_test.go"))
	})

	ginkgo.It("splits compressed output into parts and reads them back", func() {
		writeFile(filepath.Join(project, "data", "noise.txt"), testutils.RandomText(7, 20000))
		out := filepath.Join(workDir, "snap.txt")
		res := run(nil, cmd.FlattenCmd, "-s", project, "-o", out, "--base64", "-m", "4k")
		gomega.Expect(res.code).Should(gomega.Equal(0), res.stderr)
		gomega.Expect(res.stdout).Should(gomega.ContainSubstring("Split into"))
		gomega.Expect(out).ShouldNot(gomega.BeAnExistingFile())

		first := readFile(filepath.Join(workDir, "snap_part1.txt"))
		gomega.Expect(first).Should(gomega.HavePrefix(constants.HeaderMarker + " Part 1/"))

		res = run(nil, cmd.InfoCmd, "-i", out)
		gomega.Expect(res.code).Should(gomega.Equal(0), res.stderr)
		gomega.Expect(res.stdout).Should(gomega.ContainSubstring("Files:    6"))
		gomega.Expect(res.stdout).Should(gomega.ContainSubstring("data/"))

		target := filepath.Join(workDir, "restored")
		res = run(nil, cmd.RestoreCmd, "-i", out, "-t", target)
		gomega.Expect(res.code).Should(gomega.Equal(0), res.stderr)
		gomega.Expect(readFile(filepath.Join(target, "data", "noise.txt"))).Should(gomega.Equal(testutils.RandomText(7, 20000)))
	})

	ginkgo.It("restores concatenated parts from standard input", func() {
		writeFile(filepath.Join(project, "data", "noise.txt"), testutils.RandomText(7, 20000))
		out := filepath.Join(workDir, "snap.txt")
		gomega.Expect(run(nil, cmd.FlattenCmd, "-s", project, "-o", out, "--base64", "-m", "4k").code).Should(gomega.Equal(0))

		parts, err := filepath.Glob(filepath.Join(workDir, "snap_part*.txt"))
		gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
		gomega.Expect(len(parts)).Should(gomega.BeNumerically(">", 1))
		var all strings.Builder
		for i := 1; i <= len(parts); i++ {
			all.WriteString(readFile(filepath.Join(workDir, "snap_part"+strconv.Itoa(i)+".txt")))
		}

		target := filepath.Join(workDir, "restored")
		res := run(strings.NewReader(all.String()), cmd.RestoreCmd, "-i", "-", "-t", target)
		gomega.Expect(res.code).Should(gomega.Equal(0), res.stderr)
		gomega.Expect(readFile(filepath.Join(target, "main.go"))).Should(gomega.Equal("package main\n\nfunc main() {}\n"))
	})

	ginkgo.It("prints info as JSON", func() {
		out := filepath.Join(workDir, "snap.json")
		gomega.Expect(run(nil, cmd.FlattenCmd, "-s", project, "-o", out).code).Should(gomega.Equal(0))

		res := run(nil, cmd.InfoCmd, "-i", out, "--format", report.FormatJSON)
		gomega.Expect(res.code).Should(gomega.Equal(0), res.stderr)
		var sum report.Summary
		gomega.Expect(json.Unmarshal([]byte(res.stdout), &sum)).Should(gomega.Succeed())
		gomega.Expect(sum.TotalFiles).Should(gomega.Equal(5))
		gomega.Expect(sum.Source).Should(gomega.Equal(project))
		gomega.Expect(sum.Directories).Should(gomega.Equal([]string{"pkg"}))
	})

	ginkgo.It("fails on a missing source without writing output", func() {
		out := filepath.Join(workDir, "snap.json")
		res := run(nil, cmd.FlattenCmd, "-s", filepath.Join(workDir, "nope"), "-o", out)
		gomega.Expect(res.code).Should(gomega.Equal(1))
		gomega.Expect(res.stderr).Should(gomega.ContainSubstring(constants.ErrSourceNotFound.Error()))
		gomega.Expect(out).ShouldNot(gomega.BeAnExistingFile())
	})

	ginkgo.It("exits 1 without a subcommand", func() {
		res := run(nil)
		gomega.Expect(res.code).Should(gomega.Equal(1))
		gomega.Expect(res.stderr).Should(gomega.ContainSubstring(constants.ErrNoCommand.Error()))
	})

	ginkgo.It("rejects corrupt snapshots", func() {
		bad := filepath.Join(workDir, "bad.txt")
		writeFile(bad, constants.HeaderMarker+"\n#\n!!!not base64!!!\n")
		res := run(nil, cmd.InfoCmd, "-i", bad)
		gomega.Expect(res.code).Should(gomega.Equal(1))
		gomega.Expect(res.stderr).Should(gomega.ContainSubstring("invalid snapshot data"))
	})

	ginkgo.Context("when restored files already exist", func() {
		var (
			out    string
			target string
		)

		ginkgo.BeforeEach(func() {
			out = filepath.Join(workDir, "snap.json")
			target = filepath.Join(workDir, "restored")
			gomega.Expect(run(nil, cmd.FlattenCmd, "-s", project, "-o", out).code).Should(gomega.Equal(0))
			gomega.Expect(run(nil, cmd.RestoreCmd, "-i", out, "-t", target).code).Should(gomega.Equal(0))
			writeFile(filepath.Join(target, "main.go"), "changed\n")
		})

		ginkgo.It("keeps them with --skip", func() {
			res := run(nil, cmd.RestoreCmd, "-i", out, "-t", target, "--skip")
			gomega.Expect(res.code).Should(gomega.Equal(0), res.stderr)
			gomega.Expect(res.stdout).Should(gomega.ContainSubstring("Restored: 0, Skipped: 5, Errors: 0"))
			gomega.Expect(readFile(filepath.Join(target, "main.go"))).Should(gomega.Equal("changed\n"))
		})

		ginkgo.It("replaces them with --force", func() {
			res := run(nil, cmd.RestoreCmd, "-i", out, "-t", target, "--force")
			gomega.Expect(res.code).Should(gomega.Equal(0), res.stderr)
			gomega.Expect(readFile(filepath.Join(target, "main.go"))).Should(gomega.Equal("package main\n\nfunc main() {}\n"))
		})

		ginkgo.It("refuses to prompt in non-interactive mode", func() {
			res := run(nil, cmd.RestoreCmd, "-i", out, "-t", target, "--non-interactive")
			gomega.Expect(res.code).Should(gomega.Equal(1))
			gomega.Expect(res.stderr).Should(gomega.ContainSubstring("pass --force or --skip"))
			gomega.Expect(readFile(filepath.Join(target, "main.go"))).Should(gomega.Equal("changed\n"))
		})

		ginkgo.It("follows restore.policy from the config file", func() {
			gomega.Expect(run(nil, cmd.ConfigCmd, "set", "restore.policy", "skip").code).Should(gomega.Equal(0))
			res := run(nil, cmd.RestoreCmd, "-i", out, "-t", target)
			gomega.Expect(res.code).Should(gomega.Equal(0), res.stderr)
			gomega.Expect(res.stdout).Should(gomega.ContainSubstring("Skipped: 5"))
		})
	})

	ginkgo.Context("config", func() {
		ginkgo.It("persists values used as flag defaults", func() {
			res := run(nil, cmd.ConfigCmd, "set", "flatten.base64", "true")
			gomega.Expect(res.code).Should(gomega.Equal(0), res.stderr)

			res = run(nil, cmd.ConfigCmd, "get", "flatten.base64")
			gomega.Expect(res.code).Should(gomega.Equal(0), res.stderr)
			gomega.Expect(res.stdout).Should(gomega.ContainSubstring("flatten.base64 = true"))

			out := filepath.Join(workDir, "snap.txt")
			res = run(nil, cmd.FlattenCmd, "-s", project, "-o", out)
			gomega.Expect(res.code).Should(gomega.Equal(0), res.stderr)
			gomega.Expect(readFile(out)).Should(gomega.HavePrefix(constants.HeaderMarker))
			gomega.Expect(res.stdout).Should(gomega.ContainSubstring("Compression ratio:"))
		})

		ginkgo.It("rejects unknown keys and bad values", func() {
			gomega.Expect(run(nil, cmd.ConfigCmd, "get", "flatten.colour").code).Should(gomega.Equal(1))
			gomega.Expect(run(nil, cmd.ConfigCmd, "set", "restore.policy", "sometimes").code).Should(gomega.Equal(1))
			gomega.Expect(run(nil, cmd.ConfigCmd, "set", "flatten.max-size", "lots").code).Should(gomega.Equal(1))
		})

		ginkgo.It("lists every key", func() {
			res := run(nil, cmd.ConfigCmd, "list")
			gomega.Expect(res.code).Should(gomega.Equal(0), res.stderr)
			gomega.Expect(res.stdout).Should(gomega.ContainSubstring("restore.policy"))
			gomega.Expect(res.stdout).Should(gomega.ContainSubstring("flatten.ignore-file"))
		})
	})
})
