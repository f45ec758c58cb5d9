package taskapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"taskcli/internal/service"
)

// RequestError is returned when the API answers with a non-success status.
type RequestError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Content is the diagnostic body: compact JSON for JSON responses,
	// raw text otherwise, empty if the body could not be read or parsed.
	Content string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("Error: %d - %s", e.StatusCode, e.Content)
}

// Is maps 404 and 400 responses onto the service sentinels.
func (e *RequestError) Is(target error) bool {
	switch target {
	case service.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case service.ErrInvalidInput:
		return e.StatusCode == http.StatusBadRequest
	}
	return false
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not a RequestError.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 RequestError.
func IsNotFound(err error) bool {
	return errors.Is(err, service.ErrNotFound)
}

// newRequestError builds a RequestError from a failed response.
func newRequestError(resp *http.Response, log zerolog.Logger) *RequestError {
	content, err := errorContent(resp)
	if err != nil {
		log.Debug().Err(err).Int("status", resp.StatusCode).Msg("could not extract error content")
		content = ""
	}
	return &RequestError{StatusCode: resp.StatusCode, Content: content}
}

// errorContent extracts diagnostic text from a failed response.
// JSON bodies are re-encoded compactly; anything else is returned verbatim.
func errorContent(resp *http.Response) (string, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "read error body")
	}

	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return string(body), nil
	}

	content, err := normalizeJSON(body)
	if err != nil {
		return "", errors.Wrap(err, "parse error body")
	}
	return content, nil
}

// object is a decoded JSON object that keeps its first-seen key order.
// A repeated key keeps its first position and takes the last value.
type object struct {
	keys   []string
	values map[string]any
}

// normalizeJSON re-encodes body without insignificant whitespace, with
// numbers in shortest form and strings re-escaped minimally.
func normalizeJSON(body []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return "", err
	}
	if _, err := dec.Token(); err != io.EOF {
		return "", errors.New("unexpected data after JSON value")
	}

	var buf bytes.Buffer
	if err := encodeValue(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := &object{values: make(map[string]any)}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, errors.Errorf("object key is %T", keyTok)
			}
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			if _, seen := obj.values[key]; !seen {
				obj.keys = append(obj.keys, key)
			}
			obj.values[key] = val
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, errors.Errorf("unexpected delimiter %q", delim)
	}
}

func encodeValue(buf *bytes.Buffer, v any) error {
	switch v := v.(type) {
	case *object:
		buf.WriteByte('{')
		for i, key := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeString(buf, key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := encodeValue(buf, v.values[key]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, elem := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case string:
		return encodeString(buf, v)
	case json.Number:
		buf.WriteString(formatNumber(v))
	case bool:
		buf.WriteString(strconv.FormatBool(v))
	case nil:
		buf.WriteString("null")
	default:
		return errors.Errorf("unexpected JSON token %T", v)
	}
	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// formatNumber renders n as a double in shortest round-trip form:
// plain digits for magnitudes in [1e-6, 1e21), exponent form otherwise.
// Values outside the double range become null.
func formatNumber(n json.Number) string {
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return "null"
	}
	if f == 0 {
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}
