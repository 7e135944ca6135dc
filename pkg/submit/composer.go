// Package submit converts a filled value map into the outgoing submission
// request and posts it to the form backend.
package submit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/goliatone/go-formflow/pkg/category"
	"github.com/goliatone/go-formflow/pkg/formstate"
	"github.com/goliatone/go-formflow/pkg/schema"
)

// Encoding selects the wire shape of a composed submission.
type Encoding string

const (
	EncodingJSON      Encoding = "json"
	EncodingMultipart Encoding = "multipart"
)

// Request is a fully composed submission body. Values carries the plain
// value map that was serialized (filenames in place of file bytes), kept for
// traceability and for the confirmation renderer.
type Request struct {
	Encoding    Encoding
	ContentType string
	Body        []byte
	Values      map[string]any
	// ClientRef is an optional per-session reference id sent with the
	// request for traceability.
	ClientRef string
}

// Compose maps the current values into an outgoing request, choosing JSON
// when no file is selected and multipart otherwise. Fields are visited in
// schema order. Pure mapping: no retries, no transport.
func Compose(fields []schema.Field, values map[string]any) (Request, error) {
	plain := make(map[string]any, len(fields))
	var files []filePart

	for _, field := range fields {
		value := values[field.Key]
		if field.Category() == category.Image {
			file, ok := value.(*formstate.FileInput)
			if !ok || file == nil {
				continue
			}
			files = append(files, filePart{key: field.Key, file: file})
			plain[field.Key] = file.Filename
			continue
		}
		plain[field.Key] = value
	}

	if len(files) == 0 {
		body, err := json.Marshal(map[string]any{"values": plain})
		if err != nil {
			return Request{}, fmt.Errorf("submit: encode json body: %w", err)
		}
		return Request{
			Encoding:    EncodingJSON,
			ContentType: "application/json",
			Body:        body,
			Values:      plain,
		}, nil
	}

	body, contentType, err := composeMultipart(plain, files)
	if err != nil {
		return Request{}, err
	}
	return Request{
		Encoding:    EncodingMultipart,
		ContentType: contentType,
		Body:        body,
		Values:      plain,
	}, nil
}

type filePart struct {
	key  string
	file *formstate.FileInput
}

// composeMultipart writes one binary part per file field keyed by field key,
// plus a single "values" part holding the plain map as JSON.
func composeMultipart(plain map[string]any, files []filePart) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, part := range files {
		dst, err := writer.CreateFormFile(part.key, part.file.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("submit: create part %q: %w", part.key, err)
		}
		if part.file.Content != nil {
			if _, err := io.Copy(dst, part.file.Content); err != nil {
				return nil, "", fmt.Errorf("submit: write part %q: %w", part.key, err)
			}
		}
	}

	valuesJSON, err := json.Marshal(plain)
	if err != nil {
		return nil, "", fmt.Errorf("submit: encode values part: %w", err)
	}
	dst, err := writer.CreateFormField("values")
	if err != nil {
		return nil, "", fmt.Errorf("submit: create values part: %w", err)
	}
	if _, err := dst.Write(valuesJSON); err != nil {
		return nil, "", fmt.Errorf("submit: write values part: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("submit: finalize multipart body: %w", err)
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}
