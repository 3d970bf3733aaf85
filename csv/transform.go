package csv

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/robertkrimen/otto"
)

// TransformFunc rewrites a single field value.
type TransformFunc func(value string) (string, error)

// transforms is a list of all available transforms mapped by transform name
var transforms = map[string]TransformI{}

// TransformI is the transform's interface
type TransformI interface {
	Name() string
	Apply(value string) (string, error)
}

// JsTransformI is the Javascript transform interface which also inherits
// from TransformI interface's behaviours
type JsTransformI interface {
	TransformI
	Script() string
}

// AddTransforms adds given transforms to the list
func AddTransforms(list ...TransformI) error {
	for _, t := range list {
		name := strings.TrimSpace(t.Name())

		if name == "" {
			return errors.New("transform's name cannot be empty")
		}

		if _, ok := transforms[name]; ok {
			return fmt.Errorf("transform with name '%s' already exists", name)
		}

		transforms[name] = t
	}

	return nil
}

// GetTransform returns the registered transform with the given name
func GetTransform(name string) (TransformI, error) {
	t, ok := transforms[name]
	if !ok {
		return nil, fmt.Errorf("transform '%s' does not exist", name)
	}

	return t, nil
}

// NewJSTransform creates a javascript transform from a javascript file.
// The script receives the current value in the 'field' variable and must
// leave the rewritten value in the 'output' variable.
func NewJSTransform(filename string) (JsTransformI, error) {
	vm := otto.New()

	script, err := vm.Compile(filename, nil)
	if err != nil {
		return nil, err
	}

	transform := &JsTransform{
		name:   filepath.Base(filename),
		script: script.String(),
	}

	transform.fn = func(value string) (string, error) {
		vm := otto.New()

		if err := vm.Set("field", value); err != nil {
			return "", err
		}

		if _, err := vm.Run(transform.script); err != nil {
			return "", err
		}

		// We expect the string variable 'output' in the js script to be
		// defined and ready for extraction
		output, err := vm.Get("output")
		if err != nil {
			return "", err
		}
		if !output.IsDefined() {
			return "", fmt.Errorf("js error: 'output' is not defined in '%s'", filename)
		}

		return output.String(), nil
	}

	return transform, nil
}

// Transform implements the TransformI interface
// which holds a built-in transform available in the API
type Transform struct {
	name string        // the name of the transform
	fn   TransformFunc // the function rewriting the field value
}

// Name returns the name of the transform
func (t *Transform) Name() string {
	return t.name
}

// Apply runs the transform on one field value
func (t *Transform) Apply(value string) (string, error) {
	return t.fn(value)
}

// JsTransform is a transform enabling javascript code to do the rewriting
type JsTransform struct {
	name   string
	fn     TransformFunc
	script string
}

// Name returns the name of the transform
func (jt *JsTransform) Name() string {
	return jt.name
}

// Apply runs the transform on one field value
func (jt *JsTransform) Apply(value string) (string, error) {
	return jt.fn(value)
}

// Script returns the compiled javascript script used by the transform
func (jt *JsTransform) Script() string {
	return jt.script
}
