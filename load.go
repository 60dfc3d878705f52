package metalisp

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"unicode"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// form is one top-level chunk of a source file, or the reason a stretch of
// the file could not be used as one.
type form struct {
	src string
	err error
}

// splitForms cuts src into balanced top-level forms by tracking paren
// depth. A ')' with nothing open, anything but whitespace between forms,
// and a form still open at the end are reported and skipped.
func splitForms(src string) []form {
	var forms []form
	depth := 0
	start, stray := -1, -1

	flushStray := func(end int) {
		if stray >= 0 {
			forms = append(forms, form{err: errors.Wrapf(ErrParse, "unexpected %q outside a form at offset %d", src[stray:end], stray)})
			stray = -1
		}
	}

	for i, r := range src {
		if depth == 0 && (r == '(' || r == ')' || unicode.IsSpace(r)) {
			flushStray(i)
		}
		switch {
		case r == '(':
			if depth == 0 {
				start = i
			}
			depth++
		case r == ')':
			if depth == 0 {
				forms = append(forms, form{err: errors.Wrapf(ErrParse, "unbalanced ')' at offset %d", i)})
				continue
			}
			depth--
			if depth == 0 {
				forms = append(forms, form{src: src[start : i+1]})
				start = -1
			}
		case depth == 0 && !unicode.IsSpace(r):
			if stray < 0 {
				stray = i
			}
		}
	}
	flushStray(len(src))
	if depth > 0 {
		forms = append(forms, form{err: errors.Wrapf(EOF, "unterminated form at offset %d", start)})
	}
	return forms
}

// SplitForms returns the balanced top-level forms of src. Malformed
// stretches are left out and described by the returned error.
func SplitForms(src string) ([]string, error) {
	var chunks []string
	var errs *multierror.Error
	for _, f := range splitForms(src) {
		if f.err != nil {
			errs = multierror.Append(errs, f.err)
			continue
		}
		chunks = append(chunks, f.src)
	}
	return chunks, errs.ErrorOrNil()
}

// Interact reads one form from src, evaluates it and prints the result.
func (e *Env) Interact(src string) (*Node, error) {
	node, err := Read(src)
	if err != nil {
		return nil, err
	}
	ret, err := e.Eval(node)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(e.out, ret)
	return ret, nil
}

func (e *Env) report(err error) {
	fmt.Fprintf(e.errOut, "error: %v\n", err)
	e.log.Debug("form failed", zap.Error(err))
}

func (e *Env) loadReader(r io.Reader) (*Node, *multierror.Error, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, nil, errors.Wrapf(ErrResource, "%v", err)
	}
	ret := Nil()
	var errs *multierror.Error
	for _, f := range splitForms(string(b)) {
		if f.err == nil {
			var v *Node
			v, f.err = e.Interact(f.src)
			if f.err == nil {
				ret = v
				continue
			}
		}
		e.report(f.err)
		errs = multierror.Append(errs, f.err)
	}
	return ret, errs, nil
}

// LoadReader runs every top-level form read from r through Interact.
// Failing forms are reported and skipped; their errors are returned
// together once all forms have run. The result is the value of the last
// form that succeeded, or NIL.
func (e *Env) LoadReader(r io.Reader) (*Node, error) {
	ret, errs, err := e.loadReader(r)
	if err != nil {
		return nil, err
	}
	return ret, errs.ErrorOrNil()
}

func failedCount(errs *multierror.Error) int {
	if errs == nil {
		return 0
	}
	return len(errs.Errors)
}

func (e *Env) loadFile(path string) (*Node, *multierror.Error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(ErrResource, "load %v: %v", path, err)
	}
	defer f.Close()

	e.log.Debug("load started", zap.String("path", path))
	ret, errs, err := e.loadReader(f)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "load %v", path)
	}
	e.log.Debug("load finished", zap.String("path", path), zap.Int("failed", failedCount(errs)))
	return ret, errs, nil
}

// LoadFile is LoadReader on the named file. A file that cannot be opened
// is ErrResource.
func (e *Env) LoadFile(path string) (*Node, error) {
	ret, errs, err := e.loadFile(path)
	if err != nil {
		return nil, err
	}
	return ret, errs.ErrorOrNil()
}
