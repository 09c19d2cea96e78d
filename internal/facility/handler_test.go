package facility

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toruke/2tm1-ParkEase/internal/lot"
	"github.com/toruke/2tm1-ParkEase/internal/store"
	"github.com/toruke/2tm1-ParkEase/internal/tariff"
)

func testRouter(t *testing.T, spaces int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	calc := tariff.NewCalculator(tariff.DefaultConfig())
	l, err := lot.Restore(spaces, nil, nil, calc, nil)
	require.NoError(t, err)

	st := store.NewFileStore(filepath.Join(t.TempDir(), "data.json"))
	h := NewHandler(NewService(l, st))

	r := gin.New()
	r.GET("/spaces", h.Spaces)
	r.GET("/report", h.Report)
	r.POST("/vehicles/:plate", h.Register)
	r.POST("/vehicles/:plate/checkin", h.CheckIn)
	r.POST("/vehicles/:plate/checkout", h.CheckOut)
	r.GET("/vehicles/:plate/subscription", h.GetSubscription)
	r.POST("/vehicles/:plate/subscription", h.Subscribe)
	r.POST("/vehicles/:plate/subscription/extend", h.ExtendSubscription)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestCheckInAndSpaces(t *testing.T) {
	r := testRouter(t, 2)

	w := do(r, http.MethodPost, "/vehicles/AAA111/checkin", "")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp CheckInResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AAA111", resp.Plate)
	assert.Equal(t, 1, resp.Available)

	w = do(r, http.MethodGet, "/spaces", "")
	require.Equal(t, http.StatusOK, w.Code)

	var spaces SpacesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &spaces))
	assert.Equal(t, 1, spaces.Available)
	assert.Equal(t, 2, spaces.Total)
}

func TestCheckInConflicts(t *testing.T) {
	r := testRouter(t, 1)

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/vehicles/AAA111/checkin", "").Code)

	// Same plate again.
	w := do(r, http.MethodPost, "/vehicles/AAA111/checkin", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "AAA111")

	// Full lot.
	w = do(r, http.MethodPost, "/vehicles/BBB222/checkin", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "no available spaces")
}

func TestCheckInRejectsBadPlate(t *testing.T) {
	r := testRouter(t, 2)

	w := do(r, http.MethodPost, "/vehicles/!!/checkin", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckOut(t *testing.T) {
	r := testRouter(t, 2)

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/vehicles/AAA111/checkin", "").Code)

	w := do(r, http.MethodPost, "/vehicles/AAA111/checkout", "")
	require.Equal(t, http.StatusOK, w.Code)

	var receipt ReceiptResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &receipt))
	assert.Equal(t, "AAA111", receipt.Plate)
	assert.Equal(t, int64(0), receipt.AmountDue)
	assert.Nil(t, receipt.Subscription)
}

func TestCheckOutUnknownPlate(t *testing.T) {
	r := testRouter(t, 2)

	w := do(r, http.MethodPost, "/vehicles/ZZZ999/checkout", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscriptionLifecycle(t *testing.T) {
	r := testRouter(t, 2)

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/vehicles/AAA111", "").Code)

	w := do(r, http.MethodPost, "/vehicles/AAA111/subscription", `{"months": 2}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp SubscriptionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(200), resp.Price)
	assert.Equal(t, 2, resp.Subscription.Months)
	assert.True(t, resp.Subscription.Active)

	// Duplicate active pass is a conflict and names the expiry.
	w = do(r, http.MethodPost, "/vehicles/AAA111/subscription", `{"months": 1}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "ends on")

	w = do(r, http.MethodPost, "/vehicles/AAA111/subscription/extend", `{"months": 1}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(100), resp.Price)
	assert.Equal(t, 3, resp.Subscription.Months)

	w = do(r, http.MethodGet, "/vehicles/AAA111/subscription", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestSubscriptionErrors(t *testing.T) {
	r := testRouter(t, 2)

	// Unknown plate.
	w := do(r, http.MethodPost, "/vehicles/ZZZ999/subscription", `{"months": 1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/vehicles/AAA111", "").Code)

	// Extending without a pass.
	w = do(r, http.MethodPost, "/vehicles/AAA111/subscription/extend", `{"months": 1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Inspecting without a pass.
	w = do(r, http.MethodGet, "/vehicles/AAA111/subscription", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Zero months fails validation.
	w = do(r, http.MethodPost, "/vehicles/AAA111/subscription", `{"months": 0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterDuplicate(t *testing.T) {
	r := testRouter(t, 2)

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/vehicles/AAA111", "").Code)
	w := do(r, http.MethodPost, "/vehicles/AAA111", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReportEndpoint(t *testing.T) {
	r := testRouter(t, 3)

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/vehicles/AAA111/checkin", "").Code)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/vehicles/BBB222/checkin", "").Code)

	w := do(r, http.MethodGet, "/report", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ReportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	total := 0
	for _, c := range resp.PerDay {
		total += c
	}
	assert.Equal(t, 2, total)
	assert.Equal(t, 2, resp.PeakDayCount)
	require.Len(t, resp.PeakDays, 1)
}
