package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/pkg/errors"

	"github.com/eduport/admin/core/preview"
)

type formPart struct {
	name        string
	filename    string
	contentType string
	data        []byte
	value       interface{} // JSON metadata, encoded lazily
}

// Form is a multipart/form-data payload: JSON metadata parts and file parts.
type Form struct {
	parts []formPart
}

var _ Body = (*Form)(nil)

func NewForm() *Form {
	return &Form{}
}

// JSONField adds `v` as a plain field holding its JSON encoding.
func (f *Form) JSONField(name string, v interface{}) *Form {
	f.parts = append(f.parts, formPart{name: name, value: v})
	return f
}

// JSONBlob adds `v` as an application/json part, the way browsers append a JSON Blob.
func (f *Form) JSONBlob(name string, v interface{}) *Form {
	f.parts = append(f.parts, formPart{name: name, filename: "blob", contentType: "application/json", value: v})
	return f
}

// File adds an uploaded file.
func (f *Form) File(name string, file preview.File) *Form {
	ctype := file.ContentType
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	filename := file.Name
	if filename == "" {
		filename = name
	}
	f.parts = append(f.parts, formPart{name: name, filename: filename, contentType: ctype, data: file.Data})
	return f
}

// OptionalFile adds `file` when it is not nil.
func (f *Form) OptionalFile(name string, file *preview.File) *Form {
	if file != nil {
		f.File(name, *file)
	}
	return f
}

// Fields returns the part names in order.
func (f *Form) Fields() []string {
	names := make([]string, 0, len(f.parts))
	for _, p := range f.parts {
		names = append(names, p.name)
	}
	return names
}

func (f *Form) Encode() ([]byte, string, error) {
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)

	for _, p := range f.parts {
		data := p.data
		if p.value != nil {
			encoded, err := json.Marshal(p.value)
			if err != nil {
				return nil, "", errors.Wrapf(err, "encoding %q part", p.name)
			}
			data = encoded
		}

		header := make(textproto.MIMEHeader)
		if p.filename != "" {
			header.Set("Content-Disposition",
				fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(p.name), escapeQuotes(p.filename)))
		} else {
			header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"`, escapeQuotes(p.name)))
		}
		if p.contentType != "" {
			header.Set("Content-Type", p.contentType)
		}
		pw, err := w.CreatePart(header)
		if err != nil {
			return nil, "", errors.Wrapf(err, "creating %q part", p.name)
		}
		if _, err = pw.Write(data); err != nil {
			return nil, "", errors.Wrapf(err, "writing %q part", p.name)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "closing multipart writer")
	}
	return body.Bytes(), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
