package aemsg

import (
	"testing"

	"github.com/arloliu/go-tabletae/aedesc"
	"github.com/arloliu/go-tabletae/dict"
	"github.com/arloliu/go-tabletae/objspec"
	"github.com/stretchr/testify/require"
)

func requireSpecParam(t *testing.T, msg *Message, keyword aedesc.Keyword, expected *objspec.Specifier) {
	t.Helper()

	desc, ok := msg.Parameter(keyword)
	require.True(t, ok, "missing parameter '%s'", keyword)

	spec, err := objspec.Parse(desc)
	require.NoError(t, err)
	require.True(t, expected.Equal(spec), "got %s, want %s", spec, expected)
}

func TestCreateContextRequest(t *testing.T) {
	require := require.New(t)

	msg := NewCreateContextRequest(DriverAddress(), 1, dict.ContextTypeBlank)
	require.Equal(dict.SuiteCore, msg.EventClass())
	require.Equal(dict.EventCreateElement, msg.EventID())
	require.Equal([]aedesc.Keyword{dict.KeyObjectClass, dict.KeyInsertHere, dict.KeyContextType}, msg.Parameters().Keys())

	class, _ := msg.Parameter(dict.KeyObjectClass)
	require.True(aedesc.NewType(dict.ClassContext).Equal(class))

	requireSpecParam(t, msg, dict.KeyInsertHere, objspec.Tablet(1))

	mode, _ := msg.Parameter(dict.KeyContextType)
	require.True(aedesc.NewEnum(aedesc.FourCC("Blnk")).Equal(mode))
}

func TestDeleteContextRequest(t *testing.T) {
	require := require.New(t)

	msg := NewDeleteContextRequest(DriverAddress(), 7)
	require.Equal(dict.EventDelete, msg.EventID())
	require.Equal([]aedesc.Keyword{dict.KeyDirectObject}, msg.Parameters().Keys())
	requireSpecParam(t, msg, dict.KeyDirectObject, objspec.Context(7))
}

func TestGetDataRequest(t *testing.T) {
	require := require.New(t)

	routing := objspec.Control(7, dict.ControlTypeExpressKey, 2)
	msg := NewGetDataRequest(DriverAddress(), dict.PropName, aedesc.TypeUTF8Text, routing)
	require.Equal(dict.EventGetData, msg.EventID())
	require.Equal([]aedesc.Keyword{dict.KeyDirectObject, dict.KeyRequestedType}, msg.Parameters().Keys())

	requireSpecParam(t, msg, dict.KeyDirectObject, objspec.Property(dict.PropName, routing))

	rtyp, _ := msg.Parameter(dict.KeyRequestedType)
	require.True(aedesc.NewType(aedesc.TypeUTF8Text).Equal(rtyp))
}

func TestSetDataRequest(t *testing.T) {
	require := require.New(t)

	routing := objspec.Context(7)
	msg := NewSetDataRequest(DriverAddress(), dict.PropSetting, aedesc.TypeUInt32, []byte{0, 0, 0, 5}, routing)
	require.Equal(dict.EventSetData, msg.EventID())
	require.Equal([]aedesc.Keyword{dict.KeyDirectObject, dict.KeyRequestedType, dict.KeyData}, msg.Parameters().Keys())

	requireSpecParam(t, msg, dict.KeyDirectObject, objspec.Property(dict.PropSetting, routing))

	data, _ := msg.Parameter(dict.KeyData)
	value, err := data.ToUInt32()
	require.NoError(err)
	require.Equal(uint32(5), value)
}

func TestCountElementsRequest(t *testing.T) {
	require := require.New(t)

	msg := NewCountElementsRequest(DriverAddress(), dict.ClassTransducer, objspec.Tablet(2))
	require.Equal(dict.EventCountElements, msg.EventID())
	require.Equal([]aedesc.Keyword{dict.KeyObjectClass, dict.KeyDirectObject}, msg.Parameters().Keys())

	class, _ := msg.Parameter(dict.KeyObjectClass)
	require.True(aedesc.NewType(dict.ClassTransducer).Equal(class))
	requireSpecParam(t, msg, dict.KeyDirectObject, objspec.Tablet(2))

	msg = NewCountElementsRequest(DriverAddress(), dict.ClassTablet, nil)
	direct, ok := msg.Parameter(dict.KeyDirectObject)
	require.True(ok)
	require.True(direct.IsNull())
}

func TestResendEventRequest(t *testing.T) {
	require := require.New(t)

	msg := NewResendEventRequest(DriverAddress(), dict.TabletEventProximity)
	require.Equal(dict.SuiteTablet, msg.EventClass())
	require.Equal(dict.EventSendTabletEvent, msg.EventID())

	data, ok := msg.Parameter(dict.KeyData)
	require.True(ok)
	code, err := data.ToEnum()
	require.NoError(err)
	require.Equal(aedesc.FourCC("Prox"), code)
}
