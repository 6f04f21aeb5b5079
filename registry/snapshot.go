package registry

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/yeqown/avltree"
)

// A snapshot file is laid out as
//
//	| magic "AVLR" | version u8 | flags u8 | payload_sz u32 | payload | crc u32 |
//
// payload is [trees u32] followed by [name_len u32][name][tree] for every tree
// in name order, where tree is the avltree binary stream. It is lz4
// compressed when flags has flagLZ4. crc is the IEEE crc32 of the
// uncompressed payload. Fixed fields are little-endian.
const (
	snapshotMagic   = "AVLR"
	snapshotVersion = uint8(1)

	flagLZ4 = uint8(1 << 0)

	snapshot_versionOff   = 4
	snapshot_flagsOff     = snapshot_versionOff + 1
	snapshot_payloadSzOff = snapshot_flagsOff + 1
	snapshot_headerBytes  = snapshot_payloadSzOff + 4
	snapshot_crcBytes     = 4
)

var stringCodec = avltree.StringCodec[string]{}

// WriteTo writes a snapshot of every tree to w.
func (reg *Registry) WriteTo(w io.Writer) (int64, error) {
	payload, err := reg.encodePayload()
	if err != nil {
		return 0, err
	}

	flags := uint8(0)
	body := payload
	if reg.opt.compress {
		if body, err = compress(payload); err != nil {
			return 0, err
		}
		flags |= flagLZ4
	}

	if uint64(len(body)) > math.MaxUint32 {
		return 0, errors.Wrapf(avltree.ErrTooManyNodes, "snapshot payload of %d bytes", len(body))
	}

	header := make([]byte, snapshot_headerBytes)
	copy(header, snapshotMagic)
	header[snapshot_versionOff] = snapshotVersion
	header[snapshot_flagsOff] = flags
	binary.LittleEndian.PutUint32(header[snapshot_payloadSzOff:], uint32(len(body)))

	trailer := make([]byte, snapshot_crcBytes)
	binary.LittleEndian.PutUint32(trailer, crc32.ChecksumIEEE(payload))

	var written int64
	for _, part := range [][]byte{header, body, trailer} {
		n, err := w.Write(part)
		written += int64(n)
		if err != nil {
			return written, errors.Wrap(err, "WriteTo")
		}
	}

	return written, nil
}

func (reg *Registry) encodePayload() ([]byte, error) {
	reg.lock.RLock()
	defer reg.lock.RUnlock()

	buf := bytes.NewBuffer(make([]byte, 0, 1024))
	enc := avltree.NewEncoder(buf, reg.opt.treeOptions...)

	if err := enc.PutUint32(uint32(len(reg.trees))); err != nil {
		return nil, err
	}
	for _, name := range reg.sortedNames() {
		if err := stringCodec.EncodeValue(enc, name); err != nil {
			return nil, errors.Wrapf(err, "encode name %q", name)
		}
		if err := reg.trees[name].SaveBinary(buf, stringCodec, reg.opt.treeOptions...); err != nil {
			return nil, errors.Wrapf(err, "encode tree %q", name)
		}
	}

	return buf.Bytes(), nil
}

// ReadFrom reads a whole snapshot from r and replaces every tree of the
// registry with its content. The registry is left untouched on error.
func (reg *Registry) ReadFrom(r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return int64(len(data)), errors.Wrap(err, "ReadFrom")
	}

	trees, err := reg.decode(data)
	if err != nil {
		return int64(len(data)), err
	}

	reg.replace(trees)
	return int64(len(data)), nil
}

func (reg *Registry) decode(data []byte) (map[string]*Tree, error) {
	if len(data) < snapshot_headerBytes+snapshot_crcBytes {
		return nil, errors.Wrapf(ErrBadSnapshot, "only %d bytes", len(data))
	}
	if string(data[:snapshot_versionOff]) != snapshotMagic {
		return nil, errors.Wrap(ErrBadSnapshot, "magic mismatch")
	}
	if v := data[snapshot_versionOff]; v != snapshotVersion {
		return nil, errors.Wrapf(ErrBadSnapshot, "unsupported version %d", v)
	}

	flags := data[snapshot_flagsOff]
	if flags&^flagLZ4 != 0 {
		return nil, errors.Wrapf(ErrBadSnapshot, "unknown flags %#x", flags)
	}

	bodySize := uint64(binary.LittleEndian.Uint32(data[snapshot_payloadSzOff:]))
	if uint64(len(data)) != snapshot_headerBytes+bodySize+snapshot_crcBytes {
		return nil, errors.Wrapf(ErrBadSnapshot, "payload size %d doesn't match %d bytes", bodySize, len(data))
	}

	body := data[snapshot_headerBytes : snapshot_headerBytes+bodySize]
	crc := binary.LittleEndian.Uint32(data[snapshot_headerBytes+bodySize:])

	payload := body
	if flags&flagLZ4 != 0 {
		var err error
		if payload, err = decompress(body); err != nil {
			return nil, err
		}
	}

	if got := crc32.ChecksumIEEE(payload); got != crc {
		return nil, errors.Wrapf(ErrChecksumMismatch, "stored %#x, computed %#x", crc, got)
	}

	return reg.decodePayload(payload)
}

func (reg *Registry) decodePayload(payload []byte) (map[string]*Tree, error) {
	r := bytes.NewReader(payload)
	dec := avltree.NewDecoder(r, reg.opt.treeOptions...)

	count, err := dec.Uint32()
	if err != nil {
		return nil, errors.Wrap(err, "decode tree count")
	}

	trees := make(map[string]*Tree, min(count, 1024))
	for i := uint32(0); i < count; i++ {
		name, err := stringCodec.DecodeValue(dec)
		if err != nil {
			return nil, errors.Wrapf(err, "decode name of tree %d", i)
		}
		if err = validName(name); err != nil {
			return nil, errors.Wrap(ErrBadSnapshot, err.Error())
		}
		if _, dup := trees[name]; dup {
			return nil, errors.Wrapf(ErrBadSnapshot, "duplicated tree %q", name)
		}

		tree := avltree.New[string]()
		if err = tree.LoadBinary(r, stringCodec, reg.opt.treeOptions...); err != nil {
			return nil, errors.Wrapf(err, "decode tree %q", name)
		}
		trees[name] = tree
	}

	if r.Len() != 0 {
		return nil, errors.Wrapf(ErrBadSnapshot, "%d trailing bytes", r.Len())
	}

	return trees, nil
}

func compress(payload []byte) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, len(payload)/2))
	zw := lz4.NewWriter(buf)
	if _, err := zw.Write(payload); err != nil {
		return nil, errors.Wrap(err, "lz4 compress")
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "lz4 compress")
	}
	return buf.Bytes(), nil
}

func decompress(body []byte) ([]byte, error) {
	payload, err := io.ReadAll(lz4.NewReader(bytes.NewReader(body)))
	if err != nil {
		return nil, errors.Wrap(ErrBadSnapshot, "lz4: "+err.Error())
	}
	return payload, nil
}

// SaveFile writes a snapshot to path. A previous snapshot is kept as
// path.bak while writing and restored if anything fails.
func (reg *Registry) SaveFile(path string) (err error) {
	fs := reg.opt.fs

	if err = ensurePath(fs, filepath.Dir(path)); err != nil {
		return errors.Wrap(err, "SaveFile ensure path")
	}

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return errors.Wrap(err, "SaveFile stat")
	}

	var restoreFn, cleanFn func() error
	if exists {
		if restoreFn, cleanFn, err = backupFile(fs, path); err != nil {
			return errors.Wrap(err, "SaveFile backup")
		}
	}

	defer func() {
		if err == nil {
			if cleanFn != nil {
				_ = cleanFn()
			}
			return
		}

		_ = fs.Remove(path)
		if restoreFn != nil {
			if er := restoreFn(); er != nil {
				reg.opt.logger.Log("restore %s failed: %v", path, er)
			}
		}
	}()

	f, err := fs.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "SaveFile open")
	}

	bw := bufio.NewWriter(f)
	n, err := reg.WriteTo(bw)
	if err == nil {
		err = bw.Flush()
	}
	if err == nil {
		err = f.Sync()
	}
	if er := f.Close(); err == nil {
		err = er
	}
	if err != nil {
		return errors.Wrap(err, "SaveFile write")
	}

	reg.opt.logger.Log("snapshot saved to %s, %d trees, %d bytes", path, reg.Len(), n)
	return nil
}

// LoadFile replaces every tree with the snapshot stored at path. The
// registry is left untouched on error.
func (reg *Registry) LoadFile(path string) error {
	data, err := afero.ReadFile(reg.opt.fs, path)
	if err != nil {
		return errors.Wrap(err, "LoadFile read")
	}

	trees, err := reg.decode(data)
	if err != nil {
		reg.opt.logger.Log("load %s failed: %v", path, err)
		return errors.Wrapf(err, "LoadFile %s", path)
	}

	reg.replace(trees)
	reg.opt.logger.Log("snapshot loaded from %s, %d trees", path, len(trees))
	return nil
}
