package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/orgchart"
	"github.com/soundprediction/orgchart/pkg/driver"
	"github.com/soundprediction/orgchart/pkg/projection"
	"github.com/soundprediction/orgchart/pkg/types"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newClient(t *testing.T) *orgchart.Client {
	t.Helper()
	return orgchart.NewClient(driver.NewMemoryDriver(), nil, nil)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = io.WriteString(fw, content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

var errStoreDown = errors.New("connection refused")

// brokenOrgChart fails every store-backed call.
type brokenOrgChart struct{}

func (brokenOrgChart) Ingest(ctx context.Context, rows []types.RawRow) (*types.ImportSummary, error) {
	return &types.ImportSummary{}, errors.Join(types.ErrStore, errStoreDown)
}

func (b brokenOrgChart) ImportCSV(ctx context.Context, r io.Reader) (*types.ImportSummary, error) {
	return b.Ingest(ctx, nil)
}

func (brokenOrgChart) ResolveSubtree(ctx context.Context, name string) (*types.Subtree, error) {
	return nil, errors.Join(types.ErrStore, errStoreDown)
}

func (brokenOrgChart) Employee(ctx context.Context, name string) (*projection.Graph, error) {
	return nil, errors.Join(types.ErrStore, errStoreDown)
}

func (brokenOrgChart) Health(ctx context.Context) (*types.DatabaseInfo, error) {
	return nil, errStoreDown
}

func (brokenOrgChart) Stats(ctx context.Context) (*types.GraphStats, error) {
	return nil, errStoreDown
}

func (brokenOrgChart) DuplicateNames(ctx context.Context) ([]types.DuplicateName, error) {
	return nil, errStoreDown
}
