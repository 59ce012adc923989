package clustermsg

import (
	"encoding/binary"
	"errors"

	"github.com/udpcluster/udpcluster/pkg/types"
)

// Variant identifies which ClusterMessage shape a tagged payload holds.
type Variant byte

const (
	VariantActorMessage        Variant = 1
	VariantStop                Variant = 2
	VariantStatusRequest       Variant = 3
	VariantStatusResponse      Variant = 4
	VariantTargetedByUUID      Variant = 5
	VariantTargetedByClassName Variant = 6
	VariantTargetedByID        Variant = 7
)

// ErrTruncated is returned when a tagged payload is shorter than its
// declared fields require.
var ErrTruncated = errors.New("clustermsg: truncated payload")

// ErrUnknownVariant is returned when a payload's tag byte does not match
// any known Variant.
var ErrUnknownVariant = errors.New("clustermsg: unknown variant tag")

// Message is the decoded form of a tagged payload. Only the fields
// relevant to Variant are populated.
type Message struct {
	Variant   Variant
	Body      []byte     // ActorMessage, TargetedByUUID, TargetedByClassName, TargetedByID
	Status    string     // StatusResponse
	Target    types.UUID // TargetedByUUID, TargetedByID
	ClassName string     // TargetedByClassName
}

// Encode renders m as a tagged byte payload per SPEC_FULL.md §4.2.
func Encode(m Message) []byte {
	switch m.Variant {
	case VariantActorMessage:
		return append([]byte{byte(VariantActorMessage)}, m.Body...)
	case VariantStop:
		return []byte{byte(VariantStop)}
	case VariantStatusRequest:
		return []byte{byte(VariantStatusRequest)}
	case VariantStatusResponse:
		return encodeStringTagged(VariantStatusResponse, m.Status)
	case VariantTargetedByUUID:
		return encodeTargeted(VariantTargetedByUUID, m.Target, m.Body)
	case VariantTargetedByClassName:
		return encodeClassNameTagged(m.ClassName, m.Body)
	case VariantTargetedByID:
		return encodeTargeted(VariantTargetedByID, m.Target, m.Body)
	default:
		return []byte{byte(m.Variant)}
	}
}

// Decode parses a tagged byte payload produced by Encode.
func Decode(b []byte) (Message, error) {
	if len(b) < 1 {
		return Message{}, ErrTruncated
	}
	variant := Variant(b[0])
	rest := b[1:]

	switch variant {
	case VariantActorMessage:
		return Message{Variant: variant, Body: rest}, nil
	case VariantStop, VariantStatusRequest:
		return Message{Variant: variant}, nil
	case VariantStatusResponse:
		status, err := decodeString(rest)
		if err != nil {
			return Message{}, err
		}
		return Message{Variant: variant, Status: status}, nil
	case VariantTargetedByUUID, VariantTargetedByID:
		target, body, err := decodeTargeted(rest)
		if err != nil {
			return Message{}, err
		}
		return Message{Variant: variant, Target: target, Body: body}, nil
	case VariantTargetedByClassName:
		className, body, err := decodeClassName(rest)
		if err != nil {
			return Message{}, err
		}
		return Message{Variant: variant, ClassName: className, Body: body}, nil
	default:
		return Message{}, ErrUnknownVariant
	}
}

func encodeStringTagged(variant Variant, s string) []byte {
	b := make([]byte, 1+2+len(s))
	b[0] = byte(variant)
	binary.LittleEndian.PutUint16(b[1:3], uint16(len(s)))
	copy(b[3:], s)
	return b
}

func decodeString(b []byte) (string, error) {
	if len(b) < 2 {
		return "", ErrTruncated
	}
	n := int(binary.LittleEndian.Uint16(b[0:2]))
	if len(b[2:]) < n {
		return "", ErrTruncated
	}
	return string(b[2 : 2+n]), nil
}

func encodeTargeted(variant Variant, target types.UUID, body []byte) []byte {
	targetBytes := target.Bytes()
	b := make([]byte, 1+32+len(body))
	b[0] = byte(variant)
	copy(b[1:33], targetBytes[:])
	copy(b[33:], body)
	return b
}

func decodeTargeted(b []byte) (types.UUID, []byte, error) {
	if len(b) < 32 {
		return types.UUID{}, nil, ErrTruncated
	}
	return types.UUIDFromBytes(b[0:32]), b[32:], nil
}

func encodeClassNameTagged(className string, body []byte) []byte {
	b := make([]byte, 1+2+len(className)+len(body))
	b[0] = byte(VariantTargetedByClassName)
	binary.LittleEndian.PutUint16(b[1:3], uint16(len(className)))
	off := 3
	copy(b[off:off+len(className)], className)
	off += len(className)
	copy(b[off:], body)
	return b
}

func decodeClassName(b []byte) (string, []byte, error) {
	if len(b) < 2 {
		return "", nil, ErrTruncated
	}
	n := int(binary.LittleEndian.Uint16(b[0:2]))
	rest := b[2:]
	if len(rest) < n {
		return "", nil, ErrTruncated
	}
	return string(rest[:n]), rest[n:], nil
}
