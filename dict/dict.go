// Package dict holds the tablet driver's published scripting dictionary: the object classes,
// events, keywords, key forms and enumerations the remote driver understands.
//
// The values are a fixed external contract and must match the driver byte for byte.
package dict

import "github.com/arloliu/go-tabletae/aedesc"

// InvalidIndex is the reserved invalid value for every driver index and context id.
// All indices exposed by the driver are 1-based.
const InvalidIndex uint32 = 0

// DriverSignature is the application signature of the tablet driver process.
const DriverSignature aedesc.DescType = 0x5761434d // 'WaCM'

// Object classes of the driver's object model.
const (
	ClassDriver          aedesc.DescType = 0x44727672 // 'Drvr'
	ClassTablet          aedesc.DescType = 0x54626c74 // 'Tblt'
	ClassContext         aedesc.DescType = 0x434e5458 // 'CNTX'
	ClassTransducer      aedesc.DescType = 0x54726e73 // 'Trns'
	ClassTouchStrip      aedesc.DescType = 0x54537472 // 'TStr'
	ClassExpressKey      aedesc.DescType = 0x454b6579 // 'EKey'
	ClassTouchRing       aedesc.DescType = 0x54526e67 // 'TRng'
	ClassControlFunction aedesc.DescType = 0x46756e63 // 'Func'
	ClassProperty        aedesc.DescType = 0x70726f70 // 'prop'
)

// Event classes and event identifiers.
const (
	SuiteCore            aedesc.DescType = 0x636f7265 // 'core' standard object model suite
	EventCreateElement   aedesc.DescType = 0x6372656c // 'crel'
	EventDelete          aedesc.DescType = 0x64656c6f // 'delo'
	EventGetData         aedesc.DescType = 0x67657464 // 'getd'
	EventSetData         aedesc.DescType = 0x73657464 // 'setd'
	EventCountElements   aedesc.DescType = 0x636e7465 // 'cnte'
	SuiteTablet          aedesc.DescType = 0x57746162 // 'Wtab' vendor suite
	EventSendTabletEvent aedesc.DescType = 0x53744576 // 'StEv'
)

// Parameter and record keywords.
const (
	KeyDirectObject  aedesc.DescType = 0x2d2d2d2d // '----'
	KeyObjectClass   aedesc.DescType = 0x6b6f636c // 'kocl'
	KeyRequestedType aedesc.DescType = 0x72747970 // 'rtyp'
	KeyData          aedesc.DescType = 0x64617461 // 'data'
	KeyInsertHere    aedesc.DescType = 0x696e7368 // 'insh'
	KeyContextType   aedesc.DescType = 0x43547970 // 'CTyp' custom init-mode keyword
	KeyErrorNumber   aedesc.DescType = 0x6572726e // 'errn'
	KeyErrorString   aedesc.DescType = 0x65727273 // 'errs'
	KeyDesiredClass  aedesc.DescType = 0x77616e74 // 'want'
	KeyKeyForm       aedesc.DescType = 0x666f726d // 'form'
	KeyKeyData       aedesc.DescType = 0x73656c64 // 'seld'
	KeyContainer     aedesc.DescType = 0x66726f6d // 'from'
)

// Object specifier key forms.
const (
	FormAbsolutePosition aedesc.DescType = 0x696e6478 // 'indx'
	FormUniqueID         aedesc.DescType = 0x49442020 // 'ID  '
	FormPropertyID       aedesc.DescType = 0x70726f70 // 'prop'
)

// Common attribute (property) identifiers.
const (
	PropName         aedesc.DescType = 0x706e616d // 'pnam'
	PropSetting      aedesc.DescType = 0x53746e67 // 'Stng'
	PropLocation     aedesc.DescType = 0x4c6f6361 // 'Loca'
	PropFunctionType aedesc.DescType = 0x46547970 // 'FTyp'
)
