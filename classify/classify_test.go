package classify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/frankiem-4/Metron/classify"
	"github.com/frankiem-4/Metron/diag"
	"github.com/frankiem-4/Metron/model"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name           string
		fieldState     model.State
		wantSignal     bool
		wantOutput     bool
		wantRegister   bool
		wantDiagnostic string
	}{
		{name: "signal write", fieldState: model.StateSignal, wantSignal: true},
		{name: "output write", fieldState: model.StateOutput, wantOutput: true},
		{name: "register write", fieldState: model.StateRegister, wantRegister: true},
		{name: "invalid write reports a diagnostic", fieldState: model.StateInvalid, wantDiagnostic: "E_INVALID_WRITE"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			field := &model.Field{Name: "x", State: tc.fieldState}
			method := &model.Method{
				Name:          "tock",
				FieldsWritten: []model.FieldRef{{Field: field}},
			}

			bag := diag.NewBag()
			classify.Classify(nil, method, bag)

			assert.Equal(t, tc.wantSignal, method.WritesSignal)
			assert.Equal(t, tc.wantOutput, method.WritesOutput)
			assert.Equal(t, tc.wantRegister, method.WritesRegister)

			if tc.wantDiagnostic == "" {
				assert.False(t, bag.HasErrors())
				return
			}
			require := assert.New(t)
			require.True(bag.HasErrors())
			var found bool
			for _, d := range bag.All() {
				if d.Code == tc.wantDiagnostic {
					found = true
				}
			}
			require.True(found, "expected diagnostic %s", tc.wantDiagnostic)
		})
	}
}

func TestClassify_DedupesRepeatedWritesToSameField(t *testing.T) {
	field := &model.Field{Name: "acc", State: model.StateRegister}
	method := &model.Method{
		Name: "tick",
		FieldsWritten: []model.FieldRef{
			{Field: field},
			{Field: field},
		},
	}

	bag := diag.NewBag()
	classify.Classify(nil, method, bag)

	assert.True(t, method.WritesRegister)
	assert.False(t, bag.HasErrors())
}

func TestClassify_MultipleDistinctFieldsSetMultipleFlags(t *testing.T) {
	out := &model.Field{Name: "out", State: model.StateOutput}
	reg := &model.Field{Name: "acc", State: model.StateRegister}
	method := &model.Method{
		Name: "tock",
		FieldsWritten: []model.FieldRef{
			{Field: out},
			{Field: reg},
		},
	}

	bag := diag.NewBag()
	classify.Classify(nil, method, bag)

	assert.True(t, method.WritesOutput)
	assert.True(t, method.WritesRegister)
	assert.False(t, method.WritesSignal)
	assert.False(t, bag.HasErrors())
}

func TestClassify_ComponentSubFieldResolvesThroughRef(t *testing.T) {
	sub := &model.Field{Name: "inner", State: model.StateSignal}
	component := &model.Field{Name: "c", Kind: model.FieldKind{Tag: model.KindComponent}}
	method := &model.Method{
		Name:          "tock",
		FieldsWritten: []model.FieldRef{{Field: component, SubField: sub}},
	}

	bag := diag.NewBag()
	classify.Classify(nil, method, bag)

	assert.True(t, method.WritesSignal)
	assert.False(t, bag.HasErrors())
}
