package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/biomas", "200"))
	RecordHTTPRequest("GET", "/api/biomas", "200", 10*time.Millisecond)
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/biomas", "200"))
	assert.Equal(t, before+1, after)
}

func TestObserveQuery_CountsErrors(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("list", "Biomas"))
	ObserveQuery("list", "Biomas", time.Now(), nil)
	ObserveQuery("list", "Biomas", time.Now(), errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(DBQueryErrors.WithLabelValues("list", "Biomas")))
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPActiveRequests)
	TrackActiveRequest(true)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPActiveRequests))
	TrackActiveRequest(false)
	assert.Equal(t, before, testutil.ToFloat64(HTTPActiveRequests))
}
