package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseReplInput(t *testing.T) {
	type testCase struct {
		line          string
		expectedArgs  []string
		expectedFlags map[string]string
	}

	testCases := []testCase{
		{
			line:          "",
			expectedArgs:  []string{},
			expectedFlags: map[string]string{},
		},
		{
			line:          "get topics",
			expectedArgs:  []string{"get", "topics"},
			expectedFlags: map[string]string{},
		},
		{
			line:          "get  topics   --internal",
			expectedArgs:  []string{"get", "topics"},
			expectedFlags: map[string]string{"internal": ""},
		},
		{
			line:          "plan election 3 --out=plans",
			expectedArgs:  []string{"plan", "election", "3"},
			expectedFlags: map[string]string{"out": "plans"},
		},
		{
			// A leading "--" token is positional, not a flag.
			line:          "--internal topics",
			expectedArgs:  []string{"--internal", "topics"},
			expectedFlags: map[string]string{},
		},
	}

	for _, testCase := range testCases {
		input := parseReplInput(testCase.line)
		assert.Equal(t, testCase.expectedArgs, input.args, testCase.line)
		assert.Equal(t, testCase.expectedFlags, input.flags, testCase.line)
	}
}

func TestReplInputCheck(t *testing.T) {
	input := parseReplInput("get topics --internal")

	assert.NoError(t, input.check(2, 2, "internal"))
	assert.Error(t, input.check(3, 3, "internal"))
	assert.Error(t, input.check(2, 2))
	assert.Error(t, input.check(2, 2, "full"))
}

func TestReplInputBoolFlag(t *testing.T) {
	input := parseReplInput("get topics --internal --other=false --set=true")

	assert.True(t, input.boolFlag("internal"))
	assert.True(t, input.boolFlag("set"))
	assert.False(t, input.boolFlag("other"))
	assert.False(t, input.boolFlag("missing"))
}
