package metalisp

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSplitForms(t *testing.T) {
	tests := []struct {
		input    string
		want     []string
		wantErrs int
	}{
		{input: "", want: nil},
		{input: " \n\t", want: nil},
		{input: "(a)\n(b c)", want: []string{"(a)", "(b c)"}},
		{input: "(a)(b)", want: []string{"(a)", "(b)"}},
		{input: "  (a\n  (b))\n", want: []string{"(a\n  (b))"}},
		{input: ") (a)", want: []string{"(a)"}, wantErrs: 1},
		{input: "foo (a) bar", want: []string{"(a)"}, wantErrs: 2},
		{input: "x(a)", want: []string{"(a)"}, wantErrs: 1},
		{input: "(a) (b", want: []string{"(a)"}, wantErrs: 1},
		{input: "'(a)", want: []string{"(a)"}, wantErrs: 1},
	}
	for _, test := range tests {
		got, err := SplitForms(test.input)
		assert.Equal(t, test.want, got, test.input)
		if test.wantErrs == 0 {
			assert.NoError(t, err, test.input)
			continue
		}
		var merr *multierror.Error
		require.True(t, errors.As(err, &merr), test.input)
		assert.Len(t, merr.Errors, test.wantErrs, test.input)
		for _, e := range merr.Errors {
			assert.True(t, errors.Is(e, ErrParse), test.input)
		}
	}
}

func TestLoadReaderContinuesAfterFailure(t *testing.T) {
	env := newTestEnv(t)
	var out, errOut bytes.Buffer
	env.SetOutput(&out, &errOut)

	ret, err := env.LoadReader(strings.NewReader("(defn id (x) x)\n(car a)\n) (id b)\n(id c d)\n(id e)\n"))
	require.Error(t, err)
	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 3)
	assert.Equal(t, "e", ret.String())

	assert.Equal(t, "(label id (lambda (x) x))\nb\ne\n", out.String())
	assert.Equal(t, 3, strings.Count(errOut.String(), "error: "))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "twice.lisp")
	require.NoError(t, ioutil.WriteFile(fn, []byte("(defn twice (x)\n  (cons x x))\n(twice a)\n"), 0644))

	env := newTestEnv(t)
	var out bytes.Buffer
	env.SetOutput(&out, &out)

	ret, err := env.LoadFile(fn)
	require.NoError(t, err)
	assert.Equal(t, "(a a)", ret.String())

	// load from the language itself; definitions are usable in the same form.
	env2 := newTestEnv(t)
	env2.SetOutput(&out, &out)
	assert.Equal(t, "(b b)", mustEval(t, env2, "(cond ((eq (car (load "+fn+")) a) (twice b)) (True x))"))
	assert.Equal(t, "(c c)", mustEval(t, env2, "(twice c)"))
}

func TestLoadMissingFile(t *testing.T) {
	env := newTestEnv(t)
	missing := filepath.Join(t.TempDir(), "missing.lisp")

	_, err := env.LoadFile(missing)
	assert.True(t, errors.Is(err, ErrResource))

	_, err = evalString(t, env, "(load "+missing+")")
	assert.True(t, errors.Is(err, ErrResource))

	_, err = evalString(t, env, "(load '(a b))")
	assert.True(t, errors.Is(err, ErrUndefinedOperation))
}

func TestInteract(t *testing.T) {
	env := newTestEnv(t)
	var out bytes.Buffer
	env.SetOutput(&out, &out)

	_, err := env.Interact("(eq b c)")
	require.NoError(t, err)
	_, err = env.Interact("(eq b")
	assert.True(t, errors.Is(err, ErrParse))
	_, err = env.Interact("(or True True)")
	require.NoError(t, err)
	assert.Equal(t, "False\nTrue\n", out.String())
}

func TestLoadSelfIsBounded(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "self.lisp")
	require.NoError(t, ioutil.WriteFile(fn, []byte("(load "+fn+")\n"), 0644))

	env := newTestEnv(t)
	env.SetMaxDepth(20)
	var out, errOut bytes.Buffer
	env.SetOutput(&out, &errOut)

	ret, err := evalString(t, env, "(load "+fn+")")
	require.NoError(t, err)
	assert.Equal(t, "()", ret.String())
	assert.Equal(t, 1, strings.Count(errOut.String(), "maximum call depth 20 exceeded"))
	assert.Equal(t, 19, strings.Count(out.String(), "()\n"))
}

func TestLoadLogsFailedForms(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "bad.lisp")
	require.NoError(t, ioutil.WriteFile(fn, []byte("(car a)\n(frob)\n"), 0644))

	env := newTestEnv(t)
	var out bytes.Buffer
	env.SetOutput(&out, &out)
	core, logs := observer.New(zap.DebugLevel)
	env.SetLogger(zap.New(core))

	ret, err := evalString(t, env, "(load "+fn+")")
	require.NoError(t, err)
	assert.True(t, ret.IsNil())

	entries := logs.FilterMessage("load had failing forms").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["failed"])
	assert.Equal(t, fn, entries[0].ContextMap()["path"])
}
