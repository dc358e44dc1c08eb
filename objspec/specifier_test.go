package objspec

import (
	"errors"
	"testing"

	"github.com/arloliu/go-tabletae/aedesc"
	"github.com/arloliu/go-tabletae/dict"
	"github.com/stretchr/testify/require"
)

func TestRootRoundTrip(t *testing.T) {
	classes := []aedesc.DescType{
		dict.ClassDriver, dict.ClassTablet, dict.ClassContext, dict.ClassTransducer,
		dict.ClassTouchStrip, dict.ClassExpressKey, dict.ClassTouchRing, dict.ClassControlFunction,
	}
	forms := []aedesc.DescType{dict.FormAbsolutePosition, dict.FormUniqueID, dict.FormPropertyID}
	keys := []aedesc.Descriptor{
		aedesc.NewUInt32(0),
		aedesc.NewUInt32(1),
		aedesc.NewUInt32(0xffffffff),
		aedesc.NewType(dict.PropName),
		aedesc.NewUTF8Text("Intuos Pro"),
		aedesc.New(aedesc.FourCC("TPrs"), []byte{1, 2, 3}),
	}

	require := require.New(t)

	for _, class := range classes {
		for _, form := range forms {
			for _, key := range keys {
				spec := Root(class, key, form)

				encoded, err := spec.Descriptor().MarshalBinary()
				require.NoError(err)

				desc, err := aedesc.Parse(encoded)
				require.NoError(err)

				decoded, err := Parse(desc)
				require.NoError(err)
				require.Equal(class, decoded.Class())
				require.Equal(form, decoded.Form())
				require.True(key.Equal(decoded.Key()))
				require.True(decoded.IsRoot())
				require.True(spec.Equal(decoded))
			}
		}
	}
}

func TestChainRoundTrip(t *testing.T) {
	require := require.New(t)

	spec := Property(dict.PropSetting, Function(7, dict.ControlTypeTouchRing, 2, 1))
	require.Equal(4, spec.Depth())

	decoded, err := Parse(spec.Descriptor())
	require.NoError(err)
	require.True(spec.Equal(decoded))
	require.Equal("property 'Stng' of Func 1 of TRng 2 of CNTX id 7", decoded.String())
}

func TestConvenienceBuildersNesting(t *testing.T) {
	require := require.New(t)

	require.True(Transducer(1, 2).Container().Equal(Tablet(1)))
	require.True(Control(7, dict.ControlTypeExpressKey, 3).Container().Equal(Context(7)))
	require.True(Function(7, dict.ControlTypeTouchStrip, 3, 4).Container().Equal(Control(7, dict.ControlTypeTouchStrip, 3)))
	require.True(Property(dict.PropName, Context(7)).Container().Equal(Context(7)))

	require.True(Driver().IsRoot())
	require.True(Tablet(1).IsRoot())
	require.True(Context(7).IsRoot())

	require.Equal(dict.ClassTouchStrip, Control(7, dict.ControlTypeTouchStrip, 1).Class())
	require.Equal(dict.ClassExpressKey, Control(7, dict.ControlTypeExpressKey, 1).Class())
	require.Equal(dict.ClassTouchRing, Control(7, dict.ControlTypeTouchRing, 1).Class())
	require.Equal(dict.ClassTouchRing, Control(7, dict.ControlType(42), 1).Class())

	require.Equal(dict.FormUniqueID, Context(7).Form())
	require.Equal(dict.FormAbsolutePosition, Tablet(2).Form())

	index, ok := Tablet(2).Index()
	require.True(ok)
	require.Equal(uint32(2), index)

	_, ok = Property(dict.PropName, nil).Index()
	require.False(ok)
}

func TestChildOwnsContainer(t *testing.T) {
	require := require.New(t)

	parent := Context(7)
	child := Child(dict.ClassTouchRing, aedesc.NewUInt32(1), dict.FormAbsolutePosition, parent)

	require.True(child.Container().Equal(parent))
	require.NotSame(parent, child.Container())

	require.Nil(Child(dict.ClassTablet, aedesc.NewUInt32(1), dict.FormAbsolutePosition, nil).Container())
}

func TestSpecifierEqual(t *testing.T) {
	require := require.New(t)

	require.True(Tablet(1).Equal(Tablet(1)))
	require.False(Tablet(1).Equal(Tablet(2)))
	require.False(Tablet(1).Equal(Transducer(1, 1)))
	require.False(Context(1).Equal(Tablet(1)))

	var nilSpec *Specifier
	require.True(nilSpec.Equal(nil))
	require.False(nilSpec.Equal(Tablet(1)))
	require.Equal("<nil>", nilSpec.String())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		description string
		spec        *Specifier
		valid       bool
	}{
		{"driver", Driver(), true},
		{"tablet 1", Tablet(1), true},
		{"tablet 0", Tablet(0), false},
		{"transducer 0 of tablet 1", Transducer(1, 0), false},
		{"transducer 1 of tablet 0", Transducer(0, 1), false},
		{"context 7", Context(7), true},
		{"context 0", Context(0), false},
		{"control 0", Control(7, dict.ControlTypeTouchRing, 0), false},
		{"function 1 of control 1", Function(7, dict.ControlTypeExpressKey, 1, 1), true},
		{"function 0", Function(7, dict.ControlTypeExpressKey, 1, 0), false},
		{"property of context 7", Property(dict.PropName, Context(7)), true},
		{"property of context 0", Property(dict.PropName, Context(0)), false},
		{"text index", Root(dict.ClassTablet, aedesc.NewUTF8Text("1"), dict.FormAbsolutePosition), false},
	}

	require := require.New(t)

	for i, test := range tests {
		t.Logf("Test #%d: %s", i, test.description)
		err := Validate(test.spec)
		if test.valid {
			require.NoError(err)
			continue
		}

		require.ErrorIs(err, ErrInvalidIndex)
		var indexErr *IndexError
		require.True(errors.As(err, &indexErr))
	}
}

func TestDepthLimit(t *testing.T) {
	require := require.New(t)

	spec := Tablet(1)
	for i := 0; i < MaxDepth-1; i++ {
		spec = Child(dict.ClassTransducer, aedesc.NewUInt32(1), dict.FormAbsolutePosition, spec)
	}
	require.Equal(MaxDepth, spec.Depth())
	require.NoError(Validate(spec))

	_, err := Parse(spec.Descriptor())
	require.NoError(err)

	tooDeep := Child(dict.ClassTransducer, aedesc.NewUInt32(1), dict.FormAbsolutePosition, spec)
	require.ErrorIs(Validate(tooDeep), ErrTooDeep)

	_, err = Parse(tooDeep.Descriptor())
	require.ErrorIs(err, ErrTooDeep)
}

func TestParseErrors(t *testing.T) {
	require := require.New(t)

	_, err := Parse(aedesc.NewUInt32(1))
	require.ErrorIs(err, ErrNotSpecifier)

	rec := aedesc.NewRecord()
	rec.Set(dict.KeyDesiredClass, aedesc.NewType(dict.ClassTablet))
	rec.Set(dict.KeyKeyForm, aedesc.NewEnum(dict.FormAbsolutePosition))
	_, err = Parse(rec.Descriptor(aedesc.TypeObjectSpecifier))
	require.ErrorIs(err, aedesc.ErrDecode)

	rec.Set(dict.KeyKeyData, aedesc.NewUInt32(1))
	rec.Set(dict.KeyKeyForm, aedesc.NewUInt32(1))
	_, err = Parse(rec.Descriptor(aedesc.TypeObjectSpecifier))
	require.ErrorIs(err, aedesc.ErrDecode)

	rec.Set(dict.KeyKeyForm, aedesc.NewEnum(dict.FormAbsolutePosition))
	rec.Set(dict.KeyContainer, aedesc.NewUTF8Text("tablet"))
	_, err = Parse(rec.Descriptor(aedesc.TypeObjectSpecifier))
	require.ErrorIs(err, ErrNotSpecifier)

	rec.Delete(dict.KeyContainer)
	spec, err := Parse(rec.Descriptor(aedesc.TypeObjectSpecifier))
	require.NoError(err)
	require.True(spec.Equal(Tablet(1)))
}
