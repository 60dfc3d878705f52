package metalisp

import (
	"io/ioutil"
	"path"

	"github.com/pkg/errors"
	"github.com/rakyll/statik/fs"

	_ "github.com/mattn/metalisp/statik"
)

//go:generate statik -src=lib

// LoadLib evaluates the bundled prelude, which defines and, or and null
// with defn.
func LoadLib(env *Env) error {
	statikFS, err := fs.New()
	if err != nil {
		return err
	}
	dir, err := statikFS.Open("/")
	if err != nil {
		return err
	}
	defer dir.Close()

	fis, err := dir.Readdir(-1)
	if err != nil {
		return err
	}
	for _, fi := range fis {
		f, err := statikFS.Open(path.Join("/", fi.Name()))
		if err != nil {
			return err
		}
		b, err := ioutil.ReadAll(f)
		f.Close()
		if err != nil {
			return err
		}
		chunks, err := SplitForms(string(b))
		if err != nil {
			return errors.Wrapf(err, "%v", fi.Name())
		}
		for _, chunk := range chunks {
			node, err := Read(chunk)
			if err != nil {
				return errors.Wrapf(err, "%v", fi.Name())
			}
			if _, err = env.Eval(node); err != nil {
				return errors.Wrapf(err, "%v", fi.Name())
			}
		}
	}
	return nil
}
