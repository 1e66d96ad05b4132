// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatResponseValid(t *testing.T) {
	var withField ChatResponse
	require.NoError(t, json.Unmarshal([]byte(`{"response":"hello"}`), &withField))
	assert.True(t, withField.Valid())

	var emptyField ChatResponse
	require.NoError(t, json.Unmarshal([]byte(`{"response":""}`), &emptyField))
	assert.True(t, emptyField.Valid(), "empty string is still a present response field")

	var missingField ChatResponse
	require.NoError(t, json.Unmarshal([]byte(`{"agent":"circle"}`), &missingField))
	assert.False(t, missingField.Valid())
}

func TestStepLabel(t *testing.T) {
	tests := []struct {
		step string
		want string
	}{
		{StepInputValidation, "Validating"},
		{StepRouteQuery, "Routing"},
		{StepProcessAgent, "Processing"},
		{StepCheckConfirmation, "Checking"},
		{StepAwaitConfirmation, "Confirming"},
		{StepSaveMemory, "Saving"},
		{StepFinalizeResponse, "Finalizing"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StepLabel(tt.step), "step %s", tt.step)
	}

	// Unknown steps render as generic progress.
	assert.Equal(t, "Processing", StepLabel("custom_step"))
}
