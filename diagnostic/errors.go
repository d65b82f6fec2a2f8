package diagnostic

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnterminated is wrapped by DocumentFormatError when the input ends inside a bean.
	ErrUnterminated = errors.New("unexpected end of document")
	// ErrNotBean is returned when a value handed to the writer is not a registered bean.
	ErrNotBean = errors.New("value is not a bean")
	// ErrInvalidText is wrapped by ConversionError when rendered text holds
	// invalid UTF-8 or characters XML 1.0 does not allow.
	ErrInvalidText = errors.New("text is not valid XML character data")
)

// DocumentFormatError reports a structural mismatch in the tagged input.
type DocumentFormatError struct {
	// Element is the local name of the offending element, if any.
	Element string
	// Line is the 1-based input line, zero when unknown.
	Line    int
	Message string
	Err     error
}

func (e *DocumentFormatError) Error() string {
	var b strings.Builder

	b.WriteString("invalid document")
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}

	if e.Element != "" {
		fmt.Fprintf(&b, " in <%s>", e.Element)
	}

	b.WriteString(": ")
	b.WriteString(e.Message)

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

func (e *DocumentFormatError) Unwrap() error { return e.Err }

// Formatf creates a DocumentFormatError for the given element.
func Formatf(element string, format string, args ...any) *DocumentFormatError {
	return &DocumentFormatError{Element: element, Message: fmt.Sprintf(format, args...)}
}

// TypeResolutionError reports a type name that cannot be mapped to a loadable type.
type TypeResolutionError struct {
	Name string
	// Context is the package prefix used for relative names.
	Context string
}

func (e *TypeResolutionError) Error() string {
	if e.Context != "" && strings.HasPrefix(e.Name, ".") {
		return fmt.Sprintf("unknown type %q (relative to %q)", e.Name, e.Context)
	}

	return fmt.Sprintf("unknown type %q", e.Name)
}

// UnknownPropertyError reports a wire property that the bean type does not declare.
type UnknownPropertyError struct {
	BeanType    string
	Property    string
	Suggestions []string
}

func (e *UnknownPropertyError) Error() string {
	msg := fmt.Sprintf("[%s] unknown property %q", e.BeanType, e.Property)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}

	return msg
}

// ConversionError reports a leaf value that cannot be rendered to or parsed from text.
type ConversionError struct {
	// Type is the Go type involved in the conversion.
	Type string
	// Text is the offending input when parsing; empty when rendering.
	Text string
	// Path identifies the property, e.g. "Person.tags[2]". Filled in by the writer or reader.
	Path string
	Err  error
}

func (e *ConversionError) Error() string {
	var msg string
	if e.Text != "" {
		msg = fmt.Sprintf("cannot convert %q to %s", e.Text, e.Type)
	} else {
		msg = fmt.Sprintf("cannot convert %s to text", e.Type)
	}

	if e.Path != "" {
		msg = e.Path + ": " + msg
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *ConversionError) Unwrap() error { return e.Err }

// BeanError attaches the enclosing bean type and property path to a downstream error.
type BeanError struct {
	BeanType string
	Path     string
	Err      error
}

func (e *BeanError) Error() string {
	var prefix []string
	if e.BeanType != "" {
		prefix = append(prefix, "["+e.BeanType+"]")
	}

	if e.Path != "" {
		prefix = append(prefix, e.Path)
	}

	if len(prefix) == 0 {
		return e.Err.Error()
	}

	return "error parsing bean " + strings.Join(prefix, " ") + ": " + e.Err.Error()
}

func (e *BeanError) Unwrap() error { return e.Err }

// WrapBean wraps err with bean context unless it already carries the same context.
func WrapBean(beanType, path string, err error) error {
	if err == nil {
		return nil
	}

	var be *BeanError
	if errors.As(err, &be) && be.BeanType == beanType && be.Path == path {
		return err
	}

	return &BeanError{BeanType: beanType, Path: path, Err: err}
}
