package echoweb

import (
	"io"
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/eduport/admin/core"
	"github.com/eduport/admin/core/preview"
)

var (
	orderingParam = "ordering"
	maxUploadSize = int64(32 << 20)
)

type Ordering struct {
	Orderings []core.Ordering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	ord.Orderings = core.ParseOrderings(val[0])
}

// formValues returns the posted form values, multipart or not.
func formValues(ctx echo.Context) (url.Values, error) {
	req := ctx.Request()
	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		if err := req.ParseMultipartForm(maxUploadSize); err != nil {
			return nil, errors.Wrap(err, "parsing multipart form")
		}
		return req.MultipartForm.Value, nil
	}
	vals, err := ctx.FormParams()
	if err != nil {
		return nil, errors.Wrap(err, "parsing form")
	}
	return vals, nil
}

// formFile reads the uploaded file `name`; ok is false when none was uploaded.
func formFile(ctx echo.Context, name string) (f preview.File, ok bool, err error) {
	req := ctx.Request()
	if req.MultipartForm == nil {
		return preview.File{}, false, nil
	}
	fhs := req.MultipartForm.File[name]
	if len(fhs) == 0 || fhs[0].Size == 0 {
		return preview.File{}, false, nil
	}
	data, err := readFileHeader(fhs[0])
	if err != nil {
		return preview.File{}, false, errors.Wrapf(err, "reading %q file", name)
	}
	return preview.File{
		Name:        fhs[0].Filename,
		ContentType: fhs[0].Header.Get(echo.HeaderContentType),
		Data:        data,
	}, true, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()
	return io.ReadAll(src)
}

// lines returns the non blank values of `key`, splitting multiline values.
func lines(vals url.Values, key string) []string {
	var out []string
	for _, v := range vals[key] {
		for _, l := range strings.Split(v, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				out = append(out, l)
			}
		}
	}
	return out
}

// number parses a numeric form value; blank or invalid values are 0.
func number(vals url.Values, key string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(vals.Get(key)), 64)
	if err != nil {
		return 0
	}
	return f
}

func integer(vals url.Values, key string) int {
	i, err := strconv.Atoi(strings.TrimSpace(vals.Get(key)))
	if err != nil {
		return 0
	}
	return i
}

func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
