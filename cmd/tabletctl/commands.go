package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arloliu/go-tabletae/aedesc"
	"github.com/arloliu/go-tabletae/dict"
	"github.com/arloliu/go-tabletae/driver"
	"github.com/arloliu/go-tabletae/objspec"
)

var errUsage = errors.New("usage")

const commandHelp = `Commands:
  tablets                                 count attached tablets
  transducers <tablet>                    count transducers of a tablet
  controls <context> <control-type>       count controls in a context
  functions <context> <control-type> <n>  count functions of a control
  create <tablet> [blank|default]         create a context, prints its id
  destroy <context>                       destroy a context
  get <attr> <type> <route>               read an attribute
  set <attr> <type> <value> <route>       write an attribute
  resend <prox|pntr>                      resend the last tablet event

Attributes: name, setting, location, functype or any four-char code.
Types: magn, long, utf8, enum, type, bool.
Control types: TouchStrip, ExpressKey, TouchRing.
Routes: driver, tablet:<t>, transducer:<t>:<n>, context:<c>,
        control:<c>:<control-type>:<n>, function:<c>:<control-type>:<n>:<f>`

var attributeNames = map[string]aedesc.DescType{
	"name":     dict.PropName,
	"setting":  dict.PropSetting,
	"location": dict.PropLocation,
	"functype": dict.PropFunctionType,
}

// runner executes one command line against the driver.
type runner struct {
	client *driver.Client
	out    io.Writer
	// onCreate and onDestroy let the shell track the contexts it owns.
	onCreate  func(id uint32)
	onDestroy func(id uint32)
}

func (r *runner) run(args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, args := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "tablets":
		return r.printCount(r.client.TabletCount())

	case "transducers":
		if len(args) != 1 {
			return errUsage
		}
		tablet, err := parseIndex(args[0])
		if err != nil {
			return err
		}

		return r.printCount(r.client.TransducerCount(tablet))

	case "controls":
		if len(args) != 2 {
			return errUsage
		}
		ctx, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		ct, err := parseControlType(args[1])
		if err != nil {
			return err
		}

		return r.printCount(r.client.ControlCount(ctx, ct))

	case "functions":
		if len(args) != 3 {
			return errUsage
		}
		ctx, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		ct, err := parseControlType(args[1])
		if err != nil {
			return err
		}
		control, err := parseIndex(args[2])
		if err != nil {
			return err
		}

		return r.printCount(r.client.FunctionCount(ctx, control, ct))

	case "create":
		return r.create(args)

	case "destroy":
		if len(args) != 1 {
			return errUsage
		}
		ctx, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		r.client.DestroyContext(ctx)
		if r.onDestroy != nil {
			r.onDestroy(ctx)
		}

		return nil

	case "get":
		return r.get(args)

	case "set":
		return r.set(args)

	case "resend":
		if len(args) != 1 {
			return errUsage
		}
		eventType, err := parseEventType(args[0])
		if err != nil {
			return err
		}

		return r.client.ResendLastEvent(eventType)

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (r *runner) printCount(n uint32, err error) error {
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(r.out, n)

	return err
}

func (r *runner) create(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errUsage
	}

	tablet, err := parseIndex(args[0])
	if err != nil {
		return err
	}

	mode := dict.ContextTypeBlank
	if len(args) == 2 {
		switch strings.ToLower(args[1]) {
		case "blank":
		case "default":
			mode = dict.ContextTypeDefault
		default:
			return fmt.Errorf("unknown context type %q", args[1])
		}
	}

	id, err := r.client.CreateContext(tablet, mode)
	if err != nil {
		return err
	}

	if r.onCreate != nil {
		r.onCreate(id)
	}

	_, err = fmt.Fprintln(r.out, id)

	return err
}

func (r *runner) get(args []string) error {
	if len(args) != 3 {
		return errUsage
	}

	attr, err := parseAttribute(args[0])
	if err != nil {
		return err
	}
	valueType, err := parseCode(args[1])
	if err != nil {
		return err
	}
	routing, err := parseRoute(args[2])
	if err != nil {
		return err
	}

	value, err := r.client.GetAttribute(attr, valueType, routing)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(r.out, value)

	return err
}

func (r *runner) set(args []string) error {
	if len(args) != 4 {
		return errUsage
	}

	attr, err := parseAttribute(args[0])
	if err != nil {
		return err
	}
	valueType, err := parseCode(args[1])
	if err != nil {
		return err
	}
	value, err := parseValue(valueType, args[2])
	if err != nil {
		return err
	}
	routing, err := parseRoute(args[3])
	if err != nil {
		return err
	}

	return r.client.SetAttribute(attr, value.Type(), value.Data(), routing)
}

func parseIndex(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: %w", s, err)
	}

	return uint32(n), nil
}

func parseCode(s string) (aedesc.DescType, error) {
	if len(s) == 0 || len(s) > 4 {
		return 0, fmt.Errorf("invalid four-char code %q", s)
	}

	return aedesc.FourCC(s), nil
}

func parseAttribute(s string) (aedesc.DescType, error) {
	if attr, ok := attributeNames[strings.ToLower(s)]; ok {
		return attr, nil
	}

	return parseCode(s)
}

func parseControlType(s string) (dict.ControlType, error) {
	for _, ct := range []dict.ControlType{dict.ControlTypeTouchStrip, dict.ControlTypeExpressKey, dict.ControlTypeTouchRing} {
		if strings.EqualFold(ct.String(), s) {
			return ct, nil
		}
	}

	return 0, fmt.Errorf("unknown control type %q", s)
}

func parseEventType(s string) (dict.TabletEventType, error) {
	switch strings.ToLower(s) {
	case "prox", "proximity":
		return dict.TabletEventProximity, nil
	case "pntr", "pointer":
		return dict.TabletEventPointer, nil
	default:
		return 0, fmt.Errorf("unknown tablet event type %q", s)
	}
}

// parseValue converts text into a descriptor of valueType.
func parseValue(valueType aedesc.DescType, s string) (aedesc.Descriptor, error) {
	switch valueType {
	case aedesc.TypeUInt32:
		n, err := strconv.ParseUint(s, 0, 32)
		if err != nil {
			return aedesc.Descriptor{}, fmt.Errorf("invalid %s value %q: %w", valueType, s, err)
		}

		return aedesc.NewUInt32(uint32(n)), nil
	case aedesc.TypeSInt32:
		n, err := strconv.ParseInt(s, 0, 32)
		if err != nil {
			return aedesc.Descriptor{}, fmt.Errorf("invalid %s value %q: %w", valueType, s, err)
		}

		return aedesc.NewSInt32(int32(n)), nil
	case aedesc.TypeUTF8Text:
		return aedesc.NewUTF8Text(s), nil
	case aedesc.TypeEnumerated:
		code, err := parseCode(s)
		if err != nil {
			return aedesc.Descriptor{}, err
		}

		return aedesc.NewEnum(code), nil
	case aedesc.TypeType:
		code, err := parseCode(s)
		if err != nil {
			return aedesc.Descriptor{}, err
		}

		return aedesc.NewType(code), nil
	case aedesc.TypeBoolean:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return aedesc.Descriptor{}, fmt.Errorf("invalid %s value %q: %w", valueType, s, err)
		}

		return aedesc.NewBool(b), nil
	default:
		return aedesc.Descriptor{}, fmt.Errorf("unsupported value type %s", valueType)
	}
}

// parseRoute converts a route such as "control:7:ExpressKey:3" into a routing table.
func parseRoute(s string) (*objspec.Specifier, error) {
	parts := strings.Split(s, ":")
	kind, fields := strings.ToLower(parts[0]), parts[1:]

	want := map[string]int{
		"driver": 0, "tablet": 1, "transducer": 2, "context": 1, "control": 3, "function": 4,
	}
	n, ok := want[kind]
	if !ok {
		return nil, fmt.Errorf("unknown route %q", s)
	}
	if len(fields) != n {
		return nil, fmt.Errorf("route %q needs %d fields", kind, n)
	}

	indices := make([]uint32, len(fields))
	var ct dict.ControlType
	for i, f := range fields {
		if (kind == "control" || kind == "function") && i == 1 {
			var err error
			if ct, err = parseControlType(f); err != nil {
				return nil, err
			}

			continue
		}

		index, err := parseIndex(f)
		if err != nil {
			return nil, err
		}
		indices[i] = index
	}

	switch kind {
	case "driver":
		return driver.RoutingTableForDriver(), nil
	case "tablet":
		return driver.RoutingTableForTablet(indices[0]), nil
	case "transducer":
		return driver.RoutingTableForTransducer(indices[0], indices[1]), nil
	case "context":
		return driver.RoutingTableForContext(indices[0]), nil
	case "control":
		return driver.RoutingTableForControl(indices[0], ct, indices[2]), nil
	default:
		return driver.RoutingTableForFunction(indices[0], ct, indices[2], indices[3]), nil
	}
}
