package config

import (
	"github.com/stretchr/testify/assert"
	"reflect"
	"testing"
)

func TestNoZeroFields(t *testing.T) {
	cfg := Default()

	for _, field := range visit(newVar(*cfg), "Config", false) {
		assert.Fail(t, "zero-value field", field)
	}
}

// TestDefault_Limits pins down the actual numbers Default() documents, so a
// change to one of them is a deliberate edit to this test, not a silent
// drift: Queue.Capacity of 1 in particular is load-bearing for the
// producer/consumer handoff described on Queue.Capacity.
func TestDefault_Limits(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8192, cfg.Preamble.MaxSize)
	assert.Equal(t, 8192, cfg.BoundaryLine.ScratchSize)
	assert.EqualValues(t, (1<<31)-1, cfg.Epilogue.MaxSize)
	assert.EqualValues(t, (1<<63)-1, cfg.PartBody.DefaultLimit)
	assert.Equal(t, 8192, cfg.PartHeaders.MaxLineSize)
	assert.Equal(t, 1, cfg.Queue.Capacity)
	assert.Equal(t, 4, cfg.Queue.BodyCapacity)
	assert.Equal(t, 4*1024, cfg.ScratchBuffer.Size)
}

type variable struct {
	Type  reflect.Type
	Value reflect.Value
}

func newVar(a any) variable {
	return variable{reflect.TypeOf(a), reflect.ValueOf(a)}
}

func visit(a variable, name string, nullable bool) (fields []string) {
	if a.Type.Kind() == reflect.Struct {
		for field := range a.Value.NumField() {
			v1 := variable{a.Type.Field(field).Type, a.Value.Field(field)}
			fieldname := a.Type.Field(field).Name
			isNullable := a.Type.Field(field).Tag.Get("test") == "nullable"
			fields = append(fields, visit(v1, name+"."+fieldname, isNullable)...)
		}

		return fields
	}

	if a.Value.IsZero() && !nullable {
		return []string{name}
	}

	return nil
}
