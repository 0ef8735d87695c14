package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordOrderOperation(t *testing.T) {
	before := testutil.ToFloat64(orderOperations.WithLabelValues("create", "error"))
	RecordOrderOperation("create", false)
	RecordOrderOperation("create", false)
	assert.Equal(t, before+2, testutil.ToFloat64(orderOperations.WithLabelValues("create", "error")))
}

func TestRecordCatalogLoad(t *testing.T) {
	before := testutil.ToFloat64(catalogLoads.WithLabelValues("color", "success"))
	RecordCatalogLoad("color", true)
	assert.Equal(t, before+1, testutil.ToFloat64(catalogLoads.WithLabelValues("color", "success")))
}
