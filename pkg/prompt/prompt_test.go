package prompt

import (
	"errors"
	"fmt"
	"testing"

	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRun answers prompts from a list, keyed by label.
func fakeRun(t *testing.T, answers map[string]string, errs map[string]error) {
	t.Helper()
	orig := run
	t.Cleanup(func() { run = orig })

	run = func(p *promptui.Prompt) (string, error) {
		label := fmt.Sprint(p.Label)
		if err, ok := errs[label]; ok {
			return "", err
		}
		answer := answers[label]
		if p.Validate != nil && answer != "" {
			if err := p.Validate(answer); err != nil {
				return "", err
			}
		}
		return answer, nil
	}
}

func TestFormReturnsAnswersByKey(t *testing.T) {
	fakeRun(t, map[string]string{
		"Source directory": "  ~/wiki  ",
		"Target directory": "",
	}, nil)

	got, err := Form("",
		Item{Key: "source", Label: "Source directory", Default: "~/tmp/blog/wiki"},
		Item{Key: "target", Label: "Target directory", Default: "~/tmp/blog/hexo"},
	)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"source": "~/wiki",
		"target": "~/tmp/blog/hexo",
	}, got)
}

func TestFormAborts(t *testing.T) {
	for _, cause := range []error{promptui.ErrInterrupt, promptui.ErrEOF, promptui.ErrAbort} {
		t.Run(cause.Error(), func(t *testing.T) {
			fakeRun(t, nil, map[string]error{"Second": cause})

			got, err := Form("", Item{Key: "a", Label: "First"}, Item{Key: "b", Label: "Second"})
			require.ErrorIs(t, err, ErrAborted)
			assert.Nil(t, got)
			assert.True(t, IsAborted(err))
		})
	}
}

func TestFormPassesOtherErrorsThrough(t *testing.T) {
	boom := errors.New("no tty")
	fakeRun(t, nil, map[string]error{"Only": boom})

	_, err := Form("", Item{Key: "a", Label: "Only"})
	require.ErrorIs(t, err, boom)
	assert.False(t, IsAborted(err))
}

func TestFormRunsValidation(t *testing.T) {
	fakeRun(t, map[string]string{"Workers": "zero"}, nil)

	_, err := Form("", Item{Key: "workers", Label: "Workers", Default: "1", Validate: PositiveInt})
	require.Error(t, err)
	assert.False(t, IsAborted(err))
}

func TestValidators(t *testing.T) {
	assert.NoError(t, Required("x"))
	assert.Error(t, Required("   "))

	assert.NoError(t, PositiveInt("4"))
	assert.Error(t, PositiveInt("0"))
	assert.Error(t, PositiveInt("four"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{".md", ".txt", ".json"}, SplitList(" .md, .txt\t.json ,"))
	assert.Empty(t, SplitList("  "))
}
