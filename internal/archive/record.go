package archive

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/rzbill/dunfell/internal/event"
)

// ErrCorrupt is returned when a stored record fails its checksum or framing.
var ErrCorrupt = errors.New("archive: corrupt record")

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// encodeFrame writes varint headerLen | header | payload | crc32c(header|payload).
func encodeFrame(header, payload []byte) []byte {
	out := make([]byte, 0, binary.MaxVarintLen64+len(header)+len(payload)+4)
	out = binary.AppendUvarint(out, uint64(len(header)))
	out = append(out, header...)
	out = append(out, payload...)
	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	return binary.BigEndian.AppendUint32(out, crc)
}

func decodeFrame(b []byte) (header, payload []byte, err error) {
	if len(b) < 1+4 {
		return nil, nil, ErrCorrupt
	}
	hlen, n := binary.Uvarint(b)
	if n <= 0 {
		return nil, nil, ErrCorrupt
	}
	if rest := len(b) - n - 4; rest < 0 || hlen > uint64(rest) {
		return nil, nil, ErrCorrupt
	}
	header = b[n : n+int(hlen)]
	payload = b[n+int(hlen) : len(b)-4]
	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	if crc != binary.BigEndian.Uint32(b[len(b)-4:]) {
		return nil, nil, ErrCorrupt
	}
	return header, payload, nil
}

var marshalOpts = proto.MarshalOptions{Deterministic: true}

func encodeEvent(ev event.Event) ([]byte, error) {
	header := appendBE8(make([]byte, 0, 16), uint64(ev.Timestamp))
	header = appendBE8(header, ev.ThreadID)

	raw := make([]any, len(ev.Raw))
	for i, p := range ev.Raw {
		raw[i] = p
	}
	st, err := structpb.NewStruct(map[string]any{"type": ev.Type, "raw": raw})
	if err != nil {
		return nil, fmt.Errorf("archive: encode %s: %w", ev.Type, err)
	}
	payload, err := marshalOpts.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("archive: encode %s: %w", ev.Type, err)
	}
	return encodeFrame(header, payload), nil
}

// decodeEvent rebuilds an event without Params.
func decodeEvent(b []byte) (event.Event, error) {
	header, payload, err := decodeFrame(b)
	if err != nil {
		return event.Event{}, err
	}
	if len(header) != 16 {
		return event.Event{}, fmt.Errorf("%w: header is %d bytes", ErrCorrupt, len(header))
	}
	var st structpb.Struct
	if err := proto.Unmarshal(payload, &st); err != nil {
		return event.Event{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	ev := event.Event{
		Type:      st.GetFields()["type"].GetStringValue(),
		Timestamp: event.Timestamp(binary.BigEndian.Uint64(header[:8])),
		ThreadID:  binary.BigEndian.Uint64(header[8:16]),
	}
	if ev.Type == "" {
		return event.Event{}, fmt.Errorf("%w: missing event type", ErrCorrupt)
	}
	for _, v := range st.GetFields()["raw"].GetListValue().GetValues() {
		ev.Raw = append(ev.Raw, v.GetStringValue())
	}
	return ev, nil
}

// Meta describes a stored archive.
type Meta struct {
	Name             string
	InitialTimestamp event.Timestamp
	Events           uint64
	CreatedMs        int64
}

func encodeMeta(m Meta) []byte {
	b := appendBE8(make([]byte, 0, 24), uint64(m.InitialTimestamp))
	b = appendBE8(b, m.Events)
	return appendBE8(b, uint64(m.CreatedMs))
}

func decodeMeta(name string, b []byte) (Meta, error) {
	if len(b) < 24 {
		return Meta{}, fmt.Errorf("%w: metadata is %d bytes", ErrCorrupt, len(b))
	}
	return Meta{
		Name:             name,
		InitialTimestamp: event.Timestamp(binary.BigEndian.Uint64(b[0:8])),
		Events:           binary.BigEndian.Uint64(b[8:16]),
		CreatedMs:        int64(binary.BigEndian.Uint64(b[16:24])),
	}, nil
}
