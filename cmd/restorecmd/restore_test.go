// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package restorecmd

import (
	"testing"

	"github.com/luxfi/flattener/internal/testutils"
	"github.com/luxfi/flattener/pkg/config"
	"github.com/luxfi/flattener/pkg/constants"
)

func TestConflictPolicy(t *testing.T) {
	tests := []struct {
		name      string
		policy    string
		force     bool
		skip      bool
		wantForce bool
		wantSkip  bool
	}{
		{name: "default prompts", policy: ""},
		{name: "config force", policy: constants.PolicyForce, wantForce: true},
		{name: "config skip", policy: constants.PolicySkip, wantSkip: true},
		{name: "flag beats config", policy: constants.PolicySkip, force: true, wantForce: true},
		{name: "skip flag", policy: constants.PolicyForce, skip: true, wantSkip: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := testutils.SetupTest(t)
			NewCmd(testutils.SetupTestApp(t))
			if tt.policy != "" {
				require.NoError(app.Conf.SetConfigValue(config.RestorePolicyKey, tt.policy))
			}
			force, skip = tt.force, tt.skip

			gotForce, gotSkip, err := conflictPolicy()
			require.NoError(err)
			require.Equal(tt.wantForce, gotForce)
			require.Equal(tt.wantSkip, gotSkip)
		})
	}
}
