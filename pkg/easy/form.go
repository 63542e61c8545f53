package easy

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
)

// DefaultContentType is used for file parts whose extension is unknown.
const DefaultContentType = "application/octet-stream"

// FormPart is one named part of a multipart form. A part holds either inline
// Contents or a FilePath that is read when the form is sent.
type FormPart struct {
	Name     string
	Contents []byte

	// FilePath is the file to send, empty for inline parts.
	FilePath string
	FileName string

	// ContentType is only set for file parts.
	ContentType string

	file bool
}

// IsFile reports whether the part was added with AddFormFile. A file part
// with an empty FilePath fails when the form is sent.
func (p FormPart) IsFile() bool { return p.file }

// Form is a multipart/form-data body made of ordered parts. The zero value
// is an empty form ready to use.
type Form struct {
	parts []FormPart
}

// Parts returns a copy of the form parts in insertion order.
func (f *Form) Parts() []FormPart {
	return append([]FormPart(nil), f.parts...)
}

// Len returns the number of parts.
func (f *Form) Len() int { return len(f.parts) }

// AddFormString adds a text part named key to form.
func AddFormString(form *Form, key, value string) error {
	return AddFormBinary(form, key, []byte(value))
}

// AddFormBinary adds a part named key holding a copy of value to form.
func AddFormBinary(form *Form, key string, value []byte) error {
	if err := validateFormKey(key); err != nil {
		return err
	}

	form.parts = append(form.parts, FormPart{
		Name:     key,
		Contents: append([]byte{}, value...),
	})
	return nil
}

// AddFormFile adds a part named key whose contents are read from file when
// the form is sent.
//
// The part filename is the last element of file, or empty if file has none.
// The content type is looked up from the file extension with
// mime.TypeByExtension, defaulting to application/octet-stream. Besides Go's
// built-in table that lookup reads the host MIME files (/etc/mime.types and
// the like), so less common extensions may resolve differently across
// machines. A name starting with a dot and holding no other, such as
// ".png", has no extension.
func AddFormFile(form *Form, key, file string) error {
	if err := validateFormKey(key); err != nil {
		return err
	}

	form.parts = append(form.parts, FormPart{
		Name:        key,
		FilePath:    file,
		FileName:    fileName(file),
		ContentType: contentTypeByPath(file),
		file:        true,
	})
	return nil
}

func validateFormKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidFormKey)
	}

	if hasControlChar(key) || strings.ContainsRune(key, '"') {
		return fmt.Errorf("%w: %q", ErrInvalidFormKey, key)
	}

	return nil
}

func fileName(path string) string {
	if path == "" {
		return ""
	}

	base := filepath.Base(path)
	switch base {
	case ".", "..", string(filepath.Separator):
		return ""
	}
	return base
}

func contentTypeByPath(path string) string {
	base := fileName(path)
	ext := filepath.Ext(base)
	if ext == "" || ext == base {
		return DefaultContentType
	}

	t := mime.TypeByExtension(ext)
	if t == "" {
		return DefaultContentType
	}

	// Drop parameters such as "; charset=utf-8".
	if mediaType, _, err := mime.ParseMediaType(t); err == nil {
		return mediaType
	}
	return t
}

var _quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encode writes the form as a multipart body, reading file parts from disk.
// It returns the body and the Content-Type header value carrying the
// boundary.
func (f *Form) encode() (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for _, part := range f.parts {
		if err := writePart(w, part); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return body, w.FormDataContentType(), nil
}

func writePart(w *multipart.Writer, part FormPart) error {
	disposition := fmt.Sprintf(`form-data; name="%s"`, _quoteEscaper.Replace(part.Name))
	if part.IsFile() {
		disposition += fmt.Sprintf(`; filename="%s"`, _quoteEscaper.Replace(part.FileName))
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", disposition)
	if part.ContentType != "" {
		header.Set("Content-Type", part.ContentType)
	}

	pw, err := w.CreatePart(header)
	if err != nil {
		return err
	}

	if !part.IsFile() {
		_, err = pw.Write(part.Contents)
		return err
	}

	file, err := os.Open(part.FilePath)
	if err != nil {
		return fmt.Errorf("form part %q: %w", part.Name, err)
	}
	defer file.Close()

	_, err = io.Copy(pw, file)
	return err
}
