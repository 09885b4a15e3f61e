package fleet

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of vehiculos.proto:
//
//	package vehiculos;
//	rpc VehiculosService.VerificarDisponibilidad
//	  request  DisponibilidadRequest { string vehiculo_id = 1; }
//	  response                       { bool disponible = 1; string estado = 2; }
const (
	fieldVehicleID protowire.Number = 1
	fieldAvailable protowire.Number = 1
	fieldState     protowire.Number = 2
)

// AvailabilityRequest is DisponibilidadRequest{vehiculo_id}.
type AvailabilityRequest struct {
	VehicleID string
}

// AvailabilityReply is the fleet's answer {disponible, estado}.
type AvailabilityReply struct {
	Available bool
	State     string
}

func (m *AvailabilityRequest) marshal() []byte {
	var b []byte
	if m.VehicleID != "" {
		b = protowire.AppendTag(b, fieldVehicleID, protowire.BytesType)
		b = protowire.AppendString(b, m.VehicleID)
	}
	return b
}

func (m *AvailabilityRequest) unmarshal(b []byte) error {
	*m = AvailabilityRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == fieldVehicleID && typ == protowire.BytesType {
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			m.VehicleID = v
			return n, nil
		}
		return skip(num, typ, b)
	})
}

func (m *AvailabilityReply) marshal() []byte {
	var b []byte
	if m.Available {
		b = protowire.AppendTag(b, fieldAvailable, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(true))
	}
	if m.State != "" {
		b = protowire.AppendTag(b, fieldState, protowire.BytesType)
		b = protowire.AppendString(b, m.State)
	}
	return b
}

func (m *AvailabilityReply) unmarshal(b []byte) error {
	*m = AvailabilityReply{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == fieldAvailable && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			m.Available = protowire.DecodeBool(v)
			return n, nil
		case num == fieldState && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			m.State = v
			return n, nil
		default:
			return skip(num, typ, b)
		}
	})
}

func consumeFields(b []byte, field func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		m, err := field(num, typ, b)
		if err != nil {
			return err
		}
		b = b[m:]
	}
	return nil
}

func skip(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	return n, nil
}

type wireMessage interface {
	marshal() []byte
	unmarshal([]byte) error
}

// Codec encodes the fleet messages on the wire. It registers under the name "proto" so
// peers built from vehiculos.proto see a standard content subtype.
type Codec struct{}

func (Codec) Name() string { return "proto" }

func (Codec) Marshal(v any) ([]byte, error) {
	msg, ok := v.(wireMessage)
	if !ok {
		return nil, fmt.Errorf("fleet codec: unsupported message %T", v)
	}
	return msg.marshal(), nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	msg, ok := v.(wireMessage)
	if !ok {
		return fmt.Errorf("fleet codec: unsupported message %T", v)
	}
	if err := msg.unmarshal(data); err != nil {
		return errors.Join(errors.New("fleet codec: malformed message"), err)
	}
	return nil
}
