package errors

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageError_Unwrap(t *testing.T) {
	cause := &MissingFileError{Table: "orders", Path: "data/orders.csv", Err: fs.ErrNotExist}
	err := NewStageError(StageLoad, cause)

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StageLoad, stageErr.Stage)

	var missing *MissingFileError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "orders", missing.Table)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "load stage failed")
	assert.Contains(t, err.Error(), "data/orders.csv")
}

func TestNewStageError_Nil(t *testing.T) {
	assert.NoError(t, NewStageError(StageMerge, nil))
}

func TestPipelineErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "schema error lists columns",
			err:  &SchemaError{Table: "products", Path: "p.csv", Columns: []string{"aisle_id", "department_id"}},
			want: []string{"products", "p.csv", "aisle_id, department_id"},
		},
		{
			name: "parse error names line and column",
			err:  &ParseError{Table: "orders", Path: "o.csv", Line: 4, Column: "order_dow", Value: "9", Err: errors.New("out of range")},
			want: []string{"line 4", "order_dow", `"9"`, "out of range"},
		},
		{
			name: "missing file without cause",
			err:  &MissingFileError{Table: "aisles", Path: "a.csv"},
			want: []string{"aisles", "a.csv", "unreadable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, s := range tt.want {
				assert.Contains(t, tt.err.Error(), s)
			}
		})
	}
}

func TestNewEmptyResultWarning(t *testing.T) {
	w := NewEmptyResultWarning(StageFilter, "organic")

	assert.Equal(t, StageFilter, w.Stage)
	assert.Equal(t, "organic", w.Table)
	assert.Equal(t, "filter produced no organic rows", w.String())
}
