package script

import (
	"github.com/d5/tengo/v2"
	"github.com/milk9111/svgworld/physics"
	"github.com/milk9111/svgworld/runner"
)

var jointKinds = map[string]physics.JointKind{
	"revolute": physics.Revolute,
	"weld":     physics.Weld,
	"distance": physics.Distance,
}

func (s *ContactScript) buildEngine(e Engine) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["add_force"] = &tengo.UserFunction{Name: "add_force", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 4 {
			return nil, tengo.ErrWrongNumArguments
		}
		name, err := stringArg("name", args[0])
		if err != nil {
			return nil, err
		}
		body, err := stringArg("body", args[1])
		if err != nil {
			return nil, err
		}
		dx, err := floatArg("dx", args[2])
		if err != nil {
			return nil, err
		}
		dy, err := floatArg("dy", args[3])
		if err != nil {
			return nil, err
		}
		e.AddForce(name, body, dx, dy)
		return tengo.TrueValue, nil
	}}

	values["remove_force"] = &tengo.UserFunction{Name: "remove_force", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		name, err := stringArg("name", args[0])
		if err != nil {
			return nil, err
		}
		return boolObject(e.RemoveForce(name)), nil
	}}

	values["create_joint"] = &tengo.UserFunction{Name: "create_joint", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 3 {
			return nil, tengo.ErrWrongNumArguments
		}
		strs, err := stringArgs([]string{"body1", "body2", "id"}, args)
		if err != nil {
			return nil, err
		}
		e.EnqueueJoint(runner.JointRequest{ID: strs[2], Kind: physics.Distance, Body1: strs[0], Body2: strs[1]})
		return tengo.TrueValue, nil
	}}

	values["enqueue_joint"] = &tengo.UserFunction{Name: "enqueue_joint", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 4 {
			return nil, tengo.ErrWrongNumArguments
		}
		strs, err := stringArgs([]string{"kind", "id", "body1", "body2"}, args)
		if err != nil {
			return nil, err
		}
		kind, ok := jointKinds[strs[0]]
		if !ok {
			return tengo.FalseValue, nil
		}
		e.EnqueueJoint(runner.JointRequest{ID: strs[1], Kind: kind, Body1: strs[2], Body2: strs[3]})
		return tengo.TrueValue, nil
	}}

	values["destroy_joint"] = &tengo.UserFunction{Name: "destroy_joint", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		name, err := stringArg("name", args[0])
		if err != nil {
			return nil, err
		}
		if err := e.DestroyJoint(name); err != nil {
			s.log.Debug().Err(err).Msg("destroy_joint")
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	}}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		body, err := lookupBody(e, args)
		if err != nil || body == nil {
			return tengo.UndefinedValue, err
		}
		p := body.Position()
		return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: p.X}, &tengo.Float{Value: p.Y}}}, nil
	}}

	values["angle"] = &tengo.UserFunction{Name: "angle", Value: func(args ...tengo.Object) (tengo.Object, error) {
		body, err := lookupBody(e, args)
		if err != nil || body == nil {
			return tengo.UndefinedValue, err
		}
		return &tengo.Float{Value: body.Angle()}, nil
	}}

	values["tick"] = &tengo.UserFunction{Name: "tick", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(e.Tick())}, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]any, 0, len(args))
		for _, a := range args {
			parts = append(parts, tengo.ToInterface(a))
		}
		s.log.Info().Interface("args", parts).Msg("script log")
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func lookupBody(e Engine, args []tengo.Object) (*physics.Body, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	id, err := stringArg("body", args[0])
	if err != nil {
		return nil, err
	}
	data := e.Data()
	if data == nil {
		return nil, nil
	}
	body, ok := data.Body(id)
	if !ok {
		return nil, nil
	}
	return body, nil
}

func stringArg(name string, obj tengo.Object) (string, error) {
	if s, ok := obj.(*tengo.String); ok {
		return s.Value, nil
	}
	return "", tengo.ErrInvalidArgumentType{Name: name, Expected: "string", Found: obj.TypeName()}
}

func stringArgs(names []string, args []tengo.Object) ([]string, error) {
	out := make([]string, len(args))
	for i, a := range args {
		s, err := stringArg(names[i], a)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func floatArg(name string, obj tengo.Object) (float64, error) {
	switch v := obj.(type) {
	case *tengo.Int:
		return float64(v.Value), nil
	case *tengo.Float:
		return v.Value, nil
	}
	return 0, tengo.ErrInvalidArgumentType{Name: name, Expected: "int/float", Found: obj.TypeName()}
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}
