package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/h2non/filetype"
)

const (
	contentTypeJSON      = "application/json"
	contentTypeURLForm   = "application/x-www-form-urlencoded"
	contentTypeMultipart = "multipart/form-data"

	defaultUploadName = "file"
)

// FormField is one named form value. Byte slices and readers are treated
// as file content when sent as multipart.
type FormField struct {
	Name  string
	Value any
}

// Form is an ordered list of form fields. Order decides which field is
// uploaded in single-part multipart mode.
type Form []FormField

// Add appends a field.
func (f *Form) Add(name string, value any) {
	*f = append(*f, FormField{Name: name, Value: value})
}

// Get returns the first value stored under name.
func (f Form) Get(name string) (any, bool) {
	for _, field := range f {
		if field.Name == name {
			return field.Value, true
		}
	}
	return nil, false
}

// EncodingKind names how a request body goes on the wire.
type EncodingKind int

const (
	EncodeJSON EncodingKind = iota
	EncodeURLForm
	EncodeMultipart
)

func (k EncodingKind) String() string {
	switch k {
	case EncodeURLForm:
		return "urlencoded"
	case EncodeMultipart:
		return "multipart"
	default:
		return "json"
	}
}

// FormEncoding is the outcome of formatForm.
type FormEncoding struct {
	Kind EncodingKind
	// Fields holds every field for urlencoded bodies and for multipart
	// bodies built with all fields.
	Fields Form
	// FieldName, Content and Filename describe the single uploaded part.
	FieldName string
	Content   []byte
	Filename  string
	MIMEType  string
	allFields bool
}

// isMultipart reports whether any Content-Type header's first value starts
// with multipart/form-data. Header names and values compare case-insensitively.
func isMultipart(header http.Header) bool {
	for name, values := range header {
		if !strings.EqualFold(name, "Content-Type") || len(values) == 0 {
			continue
		}
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(values[0])), contentTypeMultipart) {
			return true
		}
	}
	return false
}

// formatForm decides how form fields are encoded. With a multipart
// Content-Type only the first field is uploaded unless allFields is set.
func formatForm(header http.Header, form Form, allFields bool) (FormEncoding, error) {
	if len(form) == 0 {
		return FormEncoding{Kind: EncodeJSON}, nil
	}
	if !isMultipart(header) {
		return FormEncoding{Kind: EncodeURLForm, Fields: form}, nil
	}
	if allFields {
		return FormEncoding{Kind: EncodeMultipart, Fields: form, allFields: true}, nil
	}

	first := form[0]
	content, err := fieldBytes(first.Value)
	if err != nil {
		return FormEncoding{}, fmt.Errorf("failed to read form field %s: %w", first.Name, err)
	}
	name, mimeType := sniffUpload(content)
	return FormEncoding{
		Kind:      EncodeMultipart,
		FieldName: first.Name,
		Content:   content,
		Filename:  name,
		MIMEType:  mimeType,
	}, nil
}

// encode renders the body and the Content-Type that must accompany it.
func (e FormEncoding) encode() ([]byte, string, error) {
	switch e.Kind {
	case EncodeURLForm:
		values := url.Values{}
		for _, field := range e.Fields {
			for _, s := range queryStrings(field.Value) {
				values.Add(field.Name, s)
			}
		}
		return []byte(values.Encode()), contentTypeURLForm, nil
	case EncodeMultipart:
		return e.encodeMultipart()
	default:
		return nil, "", fmt.Errorf("form encoding %s has no body", e.Kind)
	}
}

func (e FormEncoding) encodeMultipart() ([]byte, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if !e.allFields {
		if err := writeFilePart(writer, e.FieldName, e.Filename, e.MIMEType, e.Content); err != nil {
			return nil, "", err
		}
	} else {
		for _, field := range e.Fields {
			switch field.Value.(type) {
			case []byte, io.Reader:
				content, err := fieldBytes(field.Value)
				if err != nil {
					return nil, "", fmt.Errorf("failed to read form field %s: %w", field.Name, err)
				}
				name, mimeType := sniffUpload(content)
				if err := writeFilePart(writer, field.Name, name, mimeType, content); err != nil {
					return nil, "", err
				}
			default:
				if err := writer.WriteField(field.Name, stringify(field.Value)); err != nil {
					return nil, "", fmt.Errorf("failed to write field %s: %w", field.Name, err)
				}
			}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return body.Bytes(), writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFilePart(w *multipart.Writer, field, filename, mimeType string, content []byte) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(filename)))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	h.Set("Content-Type", mimeType)
	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create form file %s: %w", field, err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("failed to write file content %s: %w", field, err)
	}
	return nil
}

func fieldBytes(v any) ([]byte, error) {
	switch t := v.(type) {
	case []byte:
		return t, nil
	case string:
		return []byte(t), nil
	case io.Reader:
		return io.ReadAll(t)
	default:
		return []byte(stringify(v)), nil
	}
}

// sniffUpload derives the upload filename from the content's magic bytes:
// "file.<ext>" when the type is recognised, "file" otherwise.
func sniffUpload(content []byte) (name, mimeType string) {
	name = defaultUploadName
	defer func() {
		if recover() != nil {
			name, mimeType = defaultUploadName, ""
		}
	}()

	kind, err := filetype.Match(content)
	if err != nil || kind == filetype.Unknown || kind.Extension == "" {
		return defaultUploadName, ""
	}
	return defaultUploadName + "." + kind.Extension, kind.MIME.Value
}
