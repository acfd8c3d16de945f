// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

/*
Package prompts provides user interaction primitives following UNIX conventions.

Prompting is only allowed when stdin is a TTY. Non-interactive mode is
enabled when ANY of these is true:

  - the --non-interactive flag
  - FLATTENER_NON_INTERACTIVE=1/true/yes/on
  - CI=1/true (GitHub Actions, GitLab CI, etc.)
  - stdin is not a TTY (piped/redirected/scripted)

In non-interactive mode NewPrompterForMode returns a NonInteractivePrompter,
whose methods fail with ErrNonInteractive so commands can point the operator
at the flag that avoids the question:

	choice, err := prompter.CaptureList("How do you want to proceed?", options)
	if errors.Is(err, prompts.ErrNonInteractive) {
	    return fmt.Errorf("%w: pass --force or --skip", err)
	}
*/
package prompts
