package ptero

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"stewart/pkg/actor"
	"stewart/pkg/daicon"
)

type inbox[M any] struct {
	got []M
}

func (b *inbox[M]) Handle(m M) (actor.Next, error) {
	b.got = append(b.got, m)
	return actor.Continue, nil
}

func newTestRuntime(t *testing.T) (*actor.Runtime, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	return actor.New(actor.WithLogger(zap.New(core))), logs
}

func newInbox[M any](r *actor.Runtime) (*inbox[M], actor.Sender[M]) {
	b := &inbox[M]{}
	return b, actor.Register[M](r, b)
}

func errorLogs(logs *observer.ObservedLogs) int {
	return logs.FilterLevelExact(zap.ErrorLevel).Len()
}

// twoEntryPackage is a signature, a header declaring two entries and the
// entries themselves; the second entry has type second.
func twoEntryPackage(second uuid.UUID) []byte {
	buf := append([]byte{}, daicon.Signature[:]...)
	buf = daicon.ComponentTableHeader{Length: 2, EntriesOffset: 4096}.AppendBinary(buf)
	buf = daicon.NewComponentEntry(uuid.New(), daicon.RegionData{RelativeOffset: 1, Size: 2}).AppendBinary(buf)
	buf = daicon.ComponentEntry{TypeID: second, Data: [8]byte{1, 2, 3, 4, 5, 6, 7, 8}}.AppendBinary(buf)
	return buf
}

func TestFindComponent(t *testing.T) {
	target := uuid.New()
	r, logs := newTestRuntime(t)
	pkg := actor.Register[ReadWrite](r, NewMemoryPackage(twoEntryPackage(target)))
	box, reply := newInbox[FindComponentResult](r)

	FindComponent(r.Starter(), pkg, target, reply)
	r.Drain()

	require.Len(t, box.got, 1)
	res := box.got[0]
	require.NoError(t, res.Err)
	require.Equal(t, target, res.Entry.TypeID)
	require.Equal(t, [8]byte{1, 2, 3, 4, 5, 6, 7, 8}, res.Entry.Data)
	require.Equal(t, daicon.ComponentTableHeader{Length: 2, EntriesOffset: 4096}, res.Header)
	require.Equal(t, uint64(daicon.HeaderOffset), res.Location)
	require.Equal(t, uint64(daicon.EntriesOffset+daicon.ComponentEntrySize), res.EntryOffset)

	require.Zero(t, errorLogs(logs))
	require.Equal(t, 3, r.Len(), "protocol actors stop after replying")
}

func TestFindComponent_failures(t *testing.T) {
	target := uuid.New()
	badSignature := twoEntryPackage(target)
	badSignature[7] = '1'

	cases := []struct {
		name string
		data []byte
		want error
	}{
		{"absent", twoEntryPackage(uuid.New()), ErrComponentNotFound},
		{"bad signature", badSignature, daicon.ErrInvalidSignature},
		{"truncated header", append([]byte{}, daicon.Signature[:]...), ErrShortRead},
		{"truncated entries", twoEntryPackage(target)[:daicon.EntriesOffset+10], ErrShortRead},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newTestRuntime(t)
			pkg := actor.Register[ReadWrite](r, NewMemoryPackage(tc.data))
			box, reply := newInbox[FindComponentResult](r)

			FindComponent(r.Starter(), pkg, target, reply)
			r.Drain()

			require.Len(t, box.got, 1, "exactly one reply, no hang")
			require.ErrorIs(t, box.got[0].Err, tc.want)
			require.Equal(t, 3, r.Len())
		})
	}
}

func TestFindComponent_extension(t *testing.T) {
	const extension = 256
	target := uuid.New()

	buf := append([]byte{}, daicon.Signature[:]...)
	buf = daicon.ComponentTableHeader{ExtensionOffset: extension, ExtensionCountHint: 1, Length: 1}.AppendBinary(buf)
	buf = daicon.NewComponentEntry(uuid.New(), daicon.RegionData{}).AppendBinary(buf)
	buf = append(buf, make([]byte, extension-len(buf))...)
	buf = daicon.ComponentTableHeader{Length: 1, EntriesOffset: extension}.AppendBinary(buf)
	buf = daicon.NewComponentEntry(target, daicon.RegionData{RelativeOffset: 8, Size: 4}).AppendBinary(buf)

	r, _ := newTestRuntime(t)
	pkg := actor.Register[ReadWrite](r, NewMemoryPackage(buf))
	box, reply := newInbox[FindComponentResult](r)

	FindComponent(r.Starter(), pkg, target, reply)
	r.Drain()

	require.Len(t, box.got, 1)
	res := box.got[0]
	require.NoError(t, res.Err)
	require.Equal(t, uint64(extension), res.Location)
	require.Equal(t, uint64(extension+daicon.ComponentTableHeaderSize), res.EntryOffset)
	require.Equal(t, uint64(extension+8), res.Entry.Region().Offset(res.Header.EntriesOffset))
}

func TestFindComponent_extensionLoop(t *testing.T) {
	buf := append([]byte{}, daicon.Signature[:]...)
	buf = daicon.ComponentTableHeader{ExtensionOffset: daicon.HeaderOffset, Length: 1}.AppendBinary(buf)
	buf = daicon.NewComponentEntry(uuid.New(), daicon.RegionData{}).AppendBinary(buf)

	r, _ := newTestRuntime(t)
	pkg := actor.Register[ReadWrite](r, NewMemoryPackage(buf))
	box, reply := newInbox[FindComponentResult](r)

	FindComponent(r.Starter(), pkg, uuid.New(), reply)
	r.Drain()

	require.Len(t, box.got, 1)
	require.ErrorIs(t, box.got[0].Err, ErrExtensionLoop)
}

func TestMemoryPackage(t *testing.T) {
	r, _ := newTestRuntime(t)
	mem := NewMemoryPackage(nil)
	pkg := actor.Register[ReadWrite](r, mem)
	box, reply := newInbox[IOResult](r)

	pkg.Send(Write{Start: 4, Data: []byte("abcd"), Reply: reply})
	pkg.Send(Read{Start: 2, Length: 4, Reply: reply})
	pkg.Send(Read{Start: 6, Length: 4, Reply: reply})
	pkg.Send(Write{Start: 0, Data: []byte("xy")})
	r.Drain()

	require.Len(t, box.got, 3)
	require.NoError(t, box.got[0].Err)
	require.Nil(t, box.got[0].Data)
	require.Equal(t, []byte{0, 0, 'a', 'b'}, box.got[1].Data)
	require.ErrorIs(t, box.got[2].Err, ErrShortRead)
	require.Equal(t, []byte("xy\x00\x00abcd"), mem.Bytes())

	pkg.Send(Close{})
	r.Drain()
	require.Equal(t, 2, r.Len())
}

func TestMemoryPackage_writeOutOfRange(t *testing.T) {
	r, _ := newTestRuntime(t)
	mem := NewMemoryPackage([]byte("abcd"))
	pkg := actor.Register[ReadWrite](r, mem)
	box, reply := newInbox[IOResult](r)

	pkg.Send(Write{Start: math.MaxUint64, Data: []byte("xy"), Reply: reply})
	pkg.Send(Write{Start: MaxMemoryPackageSize, Data: []byte("x"), Reply: reply})
	pkg.Send(Read{Start: math.MaxUint64, Length: 2, Reply: reply})
	r.Drain()

	require.Len(t, box.got, 3)
	require.ErrorIs(t, box.got[0].Err, ErrWriteOutOfRange)
	require.ErrorIs(t, box.got[1].Err, ErrWriteOutOfRange)
	require.ErrorIs(t, box.got[2].Err, ErrShortRead)
	require.Equal(t, []byte("abcd"), mem.Bytes())
	require.Equal(t, 2, r.Len(), "the package keeps running")
}
