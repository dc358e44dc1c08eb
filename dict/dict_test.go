package dict

import (
	"testing"

	"github.com/arloliu/go-tabletae/aedesc"
	"github.com/stretchr/testify/require"
)

func TestVocabularyCodes(t *testing.T) {
	tests := []struct {
		code     aedesc.DescType
		expected string
	}{
		{DriverSignature, "WaCM"},
		{ClassDriver, "Drvr"},
		{ClassTablet, "Tblt"},
		{ClassContext, "CNTX"},
		{ClassTransducer, "Trns"},
		{ClassTouchStrip, "TStr"},
		{ClassExpressKey, "EKey"},
		{ClassTouchRing, "TRng"},
		{ClassControlFunction, "Func"},
		{ClassProperty, "prop"},
		{SuiteCore, "core"},
		{EventCreateElement, "crel"},
		{EventDelete, "delo"},
		{EventGetData, "getd"},
		{EventSetData, "setd"},
		{EventCountElements, "cnte"},
		{SuiteTablet, "Wtab"},
		{EventSendTabletEvent, "StEv"},
		{KeyDirectObject, "----"},
		{KeyObjectClass, "kocl"},
		{KeyRequestedType, "rtyp"},
		{KeyData, "data"},
		{KeyInsertHere, "insh"},
		{KeyContextType, "CTyp"},
		{KeyErrorNumber, "errn"},
		{KeyErrorString, "errs"},
		{KeyDesiredClass, "want"},
		{KeyKeyForm, "form"},
		{KeyKeyData, "seld"},
		{KeyContainer, "from"},
		{FormAbsolutePosition, "indx"},
		{FormUniqueID, "ID  "},
		{FormPropertyID, "prop"},
		{PropName, "pnam"},
		{PropSetting, "Stng"},
		{aedesc.DescType(ContextTypeBlank), "Blnk"},
		{aedesc.DescType(ContextTypeDefault), "Dflt"},
		{aedesc.DescType(TabletEventProximity), "Prox"},
		{aedesc.DescType(TabletEventPointer), "Pntr"},
	}

	require := require.New(t)
	for _, test := range tests {
		require.Equal(aedesc.FourCC(test.expected), test.code, test.expected)
		require.Equal(test.expected, test.code.String())
	}
}

func TestControlTypeClass(t *testing.T) {
	tests := []struct {
		controlType ControlType
		expected    aedesc.DescType
	}{
		{ControlTypeTouchStrip, ClassTouchStrip},
		{ControlTypeExpressKey, ClassExpressKey},
		{ControlTypeTouchRing, ClassTouchRing},
		{ControlType(3), ClassTouchRing},
		{ControlType(-1), ClassTouchRing},
		{ControlType(1 << 20), ClassTouchRing},
	}

	require := require.New(t)
	for _, test := range tests {
		require.Equal(test.expected, test.controlType.Class(), test.controlType.String())
	}
}

func TestParseControlType(t *testing.T) {
	require := require.New(t)

	for _, ct := range []ControlType{ControlTypeTouchStrip, ControlTypeExpressKey, ControlTypeTouchRing} {
		parsed, ok := ParseControlType(ct.String())
		require.True(ok)
		require.Equal(ct, parsed)
	}

	_, ok := ParseControlType("Dial")
	require.False(ok)
	require.Equal("ControlType(7)", ControlType(7).String())
}
