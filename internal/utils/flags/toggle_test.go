package flags

import (
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestAddToggleFlagParsesValues(t *testing.T) {
	testCases := []struct {
		name                string
		arguments           []string
		expectedValue       bool
		expectedChanged     bool
		expectedPositionals []string
	}{
		{name: "DefaultFalse", arguments: []string{}, expectedValue: false, expectedChanged: false},
		{name: "ImplicitTrue", arguments: []string{"--toggle"}, expectedValue: true, expectedChanged: true},
		{name: "ExplicitYes", arguments: []string{"--toggle", "yes"}, expectedValue: true, expectedChanged: true},
		{name: "ExplicitTrueUppercase", arguments: []string{"--toggle", "TRUE"}, expectedValue: true, expectedChanged: true},
		{name: "ExplicitNo", arguments: []string{"--toggle", "no"}, expectedValue: false, expectedChanged: true},
		{name: "EqualsForm", arguments: []string{"--toggle=off"}, expectedValue: false, expectedChanged: true},
		{
			name:                "PositionalAfterToggle",
			arguments:           []string{"--toggle", "/srv/git"},
			expectedValue:       true,
			expectedChanged:     true,
			expectedPositionals: []string{"/srv/git"},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			command := &cobra.Command{}

			var toggleValue bool
			AddToggleFlag(command.Flags(), &toggleValue, "toggle", false, "Toggle flag")

			normalizedArguments := NormalizeToggleArguments(testCase.arguments)
			parseError := command.ParseFlags(normalizedArguments)
			require.NoError(t, parseError)

			require.Equal(t, testCase.expectedValue, toggleValue)

			flag := command.Flags().Lookup("toggle")
			require.NotNil(t, flag)
			require.Equal(t, testCase.expectedChanged, flag.Changed)
			if len(testCase.expectedPositionals) > 0 {
				require.Equal(t, testCase.expectedPositionals, command.Flags().Args())
			}
		})
	}
}

func TestAddToggleFlagRejectsInvalidValues(t *testing.T) {
	command := &cobra.Command{}

	var toggleValue bool
	AddToggleFlag(command.Flags(), &toggleValue, "toggle", false, "Toggle flag")

	parseError := command.ParseFlags(NormalizeToggleArguments([]string{"--toggle=maybe"}))
	require.Error(t, parseError)
	require.False(t, toggleValue)
}

func TestNormalizeToggleArgumentsStopsAtTerminator(t *testing.T) {
	command := &cobra.Command{}

	var toggleValue bool
	AddToggleFlag(command.Flags(), &toggleValue, "toggle", false, "Toggle flag")

	normalizedArguments := NormalizeToggleArguments([]string{"--", "--toggle", "yes"})
	require.Equal(t, []string{"--", "--toggle", "yes"}, normalizedArguments)
	require.Nil(t, NormalizeToggleArguments(nil))
}

func TestNormalizeToggleArgumentsKeepsExistingPathsPositional(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.Mkdir("y", 0o755))

	command := &cobra.Command{}
	var toggleValue bool
	AddToggleFlag(command.Flags(), &toggleValue, "toggle", false, "Toggle flag")

	normalizedArguments := NormalizeToggleArguments([]string{"--toggle", "y", "--toggle", "n"})
	require.Equal(t, []string{"--toggle", "y", "--toggle=n"}, normalizedArguments)

	require.NoError(t, command.ParseFlags([]string{"--toggle", "y"}))
	require.True(t, toggleValue)
	require.Equal(t, []string{"y"}, command.Flags().Args())
}

func TestFormatToggleUsageShowsDefault(t *testing.T) {
	require.Equal(t, "`<yes|NO>` Measure only", formatToggleUsage("Measure only", false))
	require.Equal(t, "`<YES|no>` Measure only", formatToggleUsage(" Measure only ", true))
}
