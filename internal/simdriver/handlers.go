package simdriver

import (
	"fmt"

	"github.com/arloliu/go-tabletae/aedesc"
	"github.com/arloliu/go-tabletae/aemsg"
	"github.com/arloliu/go-tabletae/dict"
	"github.com/arloliu/go-tabletae/objspec"
	"github.com/puzpuzpuz/xsync/v3"
)

func requiredParam(msg *aemsg.Message, keyword aedesc.Keyword) (aedesc.Descriptor, error) {
	value, ok := msg.Parameter(keyword)
	if !ok {
		return aedesc.Descriptor{}, protoErr(dict.ErrParamMissed, "missing parameter %s", keyword)
	}

	return value, nil
}

func typeParam(msg *aemsg.Message, keyword aedesc.Keyword) (aedesc.DescType, error) {
	value, err := requiredParam(msg, keyword)
	if err != nil {
		return 0, err
	}

	code, err := value.ToType()
	if err != nil {
		return 0, protoErr(dict.ErrWrongDataType, "parameter %s: %v", keyword, err)
	}

	return code, nil
}

func specifierParam(msg *aemsg.Message, keyword aedesc.Keyword) (*objspec.Specifier, error) {
	value, err := requiredParam(msg, keyword)
	if err != nil {
		return nil, err
	}

	if value.IsNull() {
		return nil, nil
	}

	spec, err := objspec.Parse(value)
	if err != nil {
		return nil, protoErr(dict.ErrWrongDataType, "parameter %s: %v", keyword, err)
	}

	return spec, nil
}

// propertyParam splits the direct object of a get/set request into the attribute and the
// resolved object owning it.
func (d *Driver) propertyParam(msg *aemsg.Message) (aedesc.DescType, object, error) {
	spec, err := specifierParam(msg, dict.KeyDirectObject)
	if err != nil {
		return 0, object{}, err
	}

	if spec == nil || spec.Class() != dict.ClassProperty || spec.Form() != dict.FormPropertyID {
		return 0, object{}, protoErr(dict.ErrNoSuchObject, "direct object is not a property specifier")
	}

	attr, err := spec.Key().ToType()
	if err != nil {
		return 0, object{}, protoErr(dict.ErrWrongDataType, "property key: %v", err)
	}

	obj, err := d.resolve(spec.Container())
	if err != nil {
		return 0, object{}, err
	}

	return attr, obj, nil
}

func (d *Driver) createContext(client string, msg *aemsg.Message) (*aemsg.Reply, error) {
	class, err := typeParam(msg, dict.KeyObjectClass)
	if err != nil {
		return nil, err
	}
	if class != dict.ClassContext {
		return nil, protoErr(dict.ErrUnknownObjectType, "cannot create elements of class %s", class)
	}

	where, err := specifierParam(msg, dict.KeyInsertHere)
	if err != nil {
		return nil, err
	}
	owner, err := d.resolve(where)
	if err != nil {
		return nil, err
	}
	if owner.class != dict.ClassTablet {
		return nil, protoErr(dict.ErrNoSuchObject, "contexts are created on a tablet, not %s", owner.class)
	}

	mode := dict.ContextTypeBlank
	if value, ok := msg.Parameter(dict.KeyContextType); ok {
		code, err := value.ToEnum()
		if err != nil {
			return nil, protoErr(dict.ErrWrongDataType, "context type: %v", err)
		}
		mode = dict.ContextType(code)
	}
	if mode != dict.ContextTypeBlank && mode != dict.ContextTypeDefault {
		return nil, protoErr(dict.ErrWrongDataType, "unknown context type %s", mode)
	}

	id := d.nextContextID.Add(1)
	if id == dict.InvalidIndex {
		id = d.nextContextID.Add(1)
	}

	d.contexts.Store(id, &simContext{
		id:     id,
		tablet: owner.tablet,
		mode:   mode,
		client: client,
		attrs:  xsync.NewMapOf[attrKey, aedesc.Descriptor](),
	})
	d.logger.Debug("simdriver: context created", "id", id, "tablet", owner.tablet, "mode", mode.String(), "client", client)

	reply := aemsg.NewReply()
	reply.Set(dict.KeyDirectObject, aedesc.NewUInt32(id))

	return reply, nil
}

func (d *Driver) deleteContext(msg *aemsg.Message) (*aemsg.Reply, error) {
	spec, err := specifierParam(msg, dict.KeyDirectObject)
	if err != nil {
		return nil, err
	}

	obj, err := d.resolve(spec)
	if err != nil {
		return nil, err
	}
	if obj.class != dict.ClassContext {
		return nil, protoErr(dict.ErrNotModifiable, "cannot delete %s", obj.class)
	}

	d.contexts.Delete(obj.context)
	d.logger.Debug("simdriver: context deleted", "id", obj.context)

	return aemsg.NewReply(), nil
}

func (d *Driver) getData(msg *aemsg.Message) (*aemsg.Reply, error) {
	attr, obj, err := d.propertyParam(msg)
	if err != nil {
		return nil, err
	}

	want := aedesc.TypeWildCard
	if _, ok := msg.Parameter(dict.KeyRequestedType); ok {
		if want, err = typeParam(msg, dict.KeyRequestedType); err != nil {
			return nil, err
		}
	}

	value, ok := d.lookup(obj, attr)
	if !ok {
		return nil, protoErr(dict.ErrNoSuchObject, "%s has no property %s", obj.class, attr)
	}

	if want != aedesc.TypeWildCard && value.Type() != want {
		return nil, protoErr(dict.ErrCoercionFail, "cannot coerce %s to %s", value.Type(), want)
	}

	reply := aemsg.NewReply()
	reply.Set(dict.KeyDirectObject, value)

	return reply, nil
}

func (d *Driver) setData(msg *aemsg.Message) (*aemsg.Reply, error) {
	attr, obj, err := d.propertyParam(msg)
	if err != nil {
		return nil, err
	}

	value, err := requiredParam(msg, dict.KeyData)
	if err != nil {
		return nil, err
	}

	if _, ok := msg.Parameter(dict.KeyRequestedType); ok {
		dataType, err := typeParam(msg, dict.KeyRequestedType)
		if err != nil {
			return nil, err
		}
		if dataType != value.Type() {
			return nil, protoErr(dict.ErrWrongDataType, "data is %s, declared %s", value.Type(), dataType)
		}
	}

	if attr == dict.PropName || obj.class == dict.ClassDriver {
		return nil, protoErr(dict.ErrNotModifiable, "property %s of %s is read-only", attr, obj.class)
	}

	key := attrKey{path: obj.ownerPath(), attr: attr}
	if obj.context != 0 {
		ctx, ok := d.contexts.Load(obj.context)
		if !ok {
			return nil, protoErr(dict.ErrNoSuchObject, "no context with id %d", obj.context)
		}
		ctx.attrs.Store(key, value)
	} else {
		d.tablets[obj.tablet-1].attrs.Store(key, value)
	}

	return aemsg.NewReply(), nil
}

func (d *Driver) countElements(msg *aemsg.Message) (*aemsg.Reply, error) {
	class, err := typeParam(msg, dict.KeyObjectClass)
	if err != nil {
		return nil, err
	}

	spec, err := specifierParam(msg, dict.KeyDirectObject)
	if err != nil {
		return nil, err
	}

	container, err := d.resolve(spec)
	if err != nil {
		return nil, err
	}

	var count uint32
	switch ct, isControl := controlTypeOf(class); {
	case class == dict.ClassTablet && container.class == dict.ClassDriver:
		count = uint32(len(d.tablets)) //nolint:gosec // tablet count is small
	case class == dict.ClassTransducer && container.class == dict.ClassTablet:
		count = d.tablets[container.tablet-1].cfg.Transducers
	case isControl && (container.class == dict.ClassContext || container.class == dict.ClassTablet):
		count = d.tablets[container.tablet-1].cfg.Controls[ct]
	case class == dict.ClassControlFunction && container.isControl():
		count = d.tablets[container.tablet-1].cfg.FunctionsPerControl
	default:
		return nil, protoErr(dict.ErrUnknownObjectType, "%s has no elements of class %s", container.class, class)
	}

	reply := aemsg.NewReply()
	reply.Set(dict.KeyDirectObject, aedesc.NewUInt32(count))

	return reply, nil
}

func (d *Driver) resendEvent(msg *aemsg.Message) (*aemsg.Reply, error) {
	value, err := requiredParam(msg, dict.KeyData)
	if err != nil {
		return nil, err
	}

	code, err := value.ToEnum()
	if err != nil {
		return nil, protoErr(dict.ErrWrongDataType, "event type: %v", err)
	}

	eventType := dict.TabletEventType(code)
	if eventType != dict.TabletEventProximity && eventType != dict.TabletEventPointer {
		return nil, protoErr(dict.ErrWrongDataType, "unknown tablet event type %s", eventType)
	}

	d.mu.Lock()
	d.events = append(d.events, eventType)
	d.mu.Unlock()

	return aemsg.NewReply(), nil
}

// lookup finds attr for obj: context settings first, then the tablet-wide settings when the
// context was created from the current settings, then the built-in properties.
func (d *Driver) lookup(obj object, attr aedesc.DescType) (aedesc.Descriptor, bool) {
	if obj.class == dict.ClassDriver {
		return d.driverAttribute(attr)
	}

	key := attrKey{path: obj.ownerPath(), attr: attr}
	useTablet := true

	if obj.context != 0 {
		ctx, ok := d.contexts.Load(obj.context)
		if !ok {
			return aedesc.Descriptor{}, false
		}
		if value, ok := ctx.attrs.Load(key); ok {
			return value, true
		}
		useTablet = ctx.mode == dict.ContextTypeDefault
	}

	if useTablet {
		if value, ok := d.tablets[obj.tablet-1].attrs.Load(key); ok {
			return value, true
		}
	}

	return d.builtinAttribute(obj, attr)
}

func (d *Driver) builtinAttribute(obj object, attr aedesc.DescType) (aedesc.Descriptor, bool) {
	t := d.tablets[obj.tablet-1]

	switch attr {
	case dict.PropName:
		switch {
		case obj.function != 0:
			return aedesc.NewUTF8Text(fmt.Sprintf("Function %d", obj.function)), true
		case obj.control != 0:
			return aedesc.NewUTF8Text(fmt.Sprintf("%s %d", obj.controlType, obj.control)), true
		case obj.transducer != 0:
			return aedesc.NewUTF8Text(fmt.Sprintf("Transducer %d", obj.transducer)), true
		default:
			return aedesc.NewUTF8Text(t.cfg.Name), true
		}
	case dict.PropLocation:
		if obj.control != 0 {
			return aedesc.NewUInt32(obj.control), true
		}
	case dict.PropSetting:
		if obj.context != 0 {
			return aedesc.NewUInt32(0), true
		}
	}

	return aedesc.Descriptor{}, false
}
