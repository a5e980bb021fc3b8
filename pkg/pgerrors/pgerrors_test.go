package pgerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	overlap := fmt.Errorf("insert: %w", &pq.Error{Code: "23P01", Constraint: "reservations_staff_no_overlap"})

	assert.True(t, IsExclusionViolation(overlap))
	assert.Equal(t, "reservations_staff_no_overlap", Constraint(overlap))
	assert.False(t, IsRetryable(overlap))

	assert.True(t, IsRetryable(&pq.Error{Code: "40001"}))
	assert.True(t, IsRetryable(&pq.Error{Code: "40P01"}))
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, IsCheckViolation(&pq.Error{Code: "23514"}))
	assert.True(t, IsForeignKeyViolation(&pq.Error{Code: "23503"}))

	assert.Equal(t, "", Code(errors.New("plain")))
}
