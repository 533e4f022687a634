package extract

import (
	"errors"
	"net/http"
)

// unknownProfileError is returned when the requested profile is not registered.
type unknownProfileError struct{ name string }

func (e unknownProfileError) Error() string { return "unknown extraction profile: " + e.name }

func (e unknownProfileError) StatusCode() int { return http.StatusNotFound }

// ErrUnknownProfile builds the error for a missing profile name.
func ErrUnknownProfile(name string) error { return unknownProfileError{name: name} }

// IsUnknownProfile reports whether err names a missing profile.
func IsUnknownProfile(err error) bool {
	var e unknownProfileError
	return errors.As(err, &e)
}

type badUploadError struct{ msg string }

func (e badUploadError) Error() string { return e.msg }

func (e badUploadError) StatusCode() int { return http.StatusBadRequest }

// ErrEmptyUpload is returned for a zero-byte file.
var ErrEmptyUpload error = badUploadError{msg: "Arquivo vazio (campo 'file')."}

// IsEmptyUpload reports whether err rejects a zero-byte upload.
func IsEmptyUpload(err error) bool {
	var e badUploadError
	return errors.As(err, &e)
}
