package middleware

import (
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/relayhttp/relay/pkg/relay"
)

// formDataKey is the context key the parsed form is stored under.
const formDataKey = "middleware.formdata"

// FormData is a parsed multipart request body.
type FormData struct {
	// Values holds the non-file fields.
	Values map[string][]string

	// Files holds the file parts by field name.
	Files map[string][]*multipart.FileHeader
}

// MultipartConfig configures the multipart parser.
type MultipartConfig struct {
	// MaxMemory bounds the bytes buffered in memory; larger file parts
	// spill to disk. Default: 32MB.
	MaxMemory int64
}

// Multipart creates middleware that parses multipart/form-data request
// bodies and stores the result on the context for Form to read. Requests
// with other content types pass through untouched; malformed multipart
// bodies get a 400.
func Multipart(config MultipartConfig) relay.Handler {
	if config.MaxMemory == 0 {
		config.MaxMemory = 32 << 20
	}

	return relay.HandlerFunc(func(ctx *relay.Context, next relay.Next) (*relay.Response, error) {
		mediaType, params, err := mime.ParseMediaType(ctx.Request.Header.Get("Content-Type"))
		if err != nil || !strings.HasPrefix(mediaType, "multipart/") || ctx.Request.Body == nil {
			return next()
		}
		boundary := params["boundary"]
		if boundary == "" {
			return relay.Text(http.StatusBadRequest, "Missing multipart boundary"), nil
		}

		reader := multipart.NewReader(ctx.Request.Body, boundary)
		form, err := reader.ReadForm(config.MaxMemory)
		if err != nil {
			return relay.Text(http.StatusBadRequest, "Malformed multipart body"), nil
		}
		defer form.RemoveAll()

		ctx.Set(formDataKey, &FormData{
			Values: form.Value,
			Files:  form.File,
		})
		return next()
	})
}

// Form returns the multipart form parsed by Multipart, or nil when the
// request carried none.
func Form(ctx *relay.Context) *FormData {
	form, _ := ctx.Get(formDataKey).(*FormData)
	return form
}
