// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/MiSo1289/hdrpkg/pkg/errors"
)

func TestParseTestToggle(t *testing.T) {
	tests := []struct {
		value   string
		want    TestToggle
		wantErr bool
	}{
		{value: "", want: TestsUnspecified},
		{value: "  ", want: TestsUnspecified},
		{value: "1", want: TestsEnabled},
		{value: "true", want: TestsEnabled},
		{value: "TRUE", want: TestsEnabled},
		{value: "Yes", want: TestsEnabled},
		{value: "on", want: TestsEnabled},
		{value: "0", want: TestsDisabled},
		{value: "False", want: TestsDisabled},
		{value: "no", want: TestsDisabled},
		{value: "OFF", want: TestsDisabled},
		{value: "2", wantErr: true},
		{value: "maybe", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseTestToggle(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperrors.ErrCodeInvalidRequest, apperrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTestToggleShouldRun(t *testing.T) {
	assert.True(t, TestsUnspecified.ShouldRun())
	assert.True(t, TestsEnabled.ShouldRun())
	assert.False(t, TestsDisabled.ShouldRun())
}

func TestTestToggleFromEnv(t *testing.T) {
	const env = "HDRPKG_TEST_TOGGLE"

	t.Setenv(env, "0")
	got, err := TestToggleFromEnv(env)
	require.NoError(t, err)
	assert.Equal(t, TestsDisabled, got)

	t.Setenv(env, "")
	got, err = TestToggleFromEnv(env)
	require.NoError(t, err)
	assert.Equal(t, TestsUnspecified, got)

	t.Setenv(env, "perhaps")
	_, err = TestToggleFromEnv(env)
	var se *apperrors.StructuredError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, env, se.Context["env"])
}
