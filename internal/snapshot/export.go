package snapshot

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// MagicMSCAN tags an exported snapshot file, a debug/offline-inspection
// export format: one LZ4-compressed block per region plus a JSON
// sparse-index footer with an 8-byte big-endian length suffix.
const MagicMSCAN = "MSCN"

// regionIndexEntry is one footer entry, analogous to cidx's BlockMeta.
type regionIndexEntry struct {
	BaseAddress Address `json:"base_address"`
	Size        Size    `json:"size"`
	Offset      int64   `json:"offset"`
	Length      int64   `json:"length"`
}

type snapshotIndex struct {
	Regions []regionIndexEntry `json:"regions"`
}

// Export serializes every region's current bytes and filter state to
// w as a portable .mscan file, for attaching a saved scan session to
// a bug report or inspecting it offline.
func Export(w io.Writer, s *Snapshot) error {
	n, err := w.Write([]byte(MagicMSCAN))
	if err != nil {
		return fmt.Errorf("snapshot: writing magic header: %w", err)
	}
	offset := int64(n)
	var index snapshotIndex

	var rawBuf, compBuf bytes.Buffer
	for _, r := range s.regions {
		r.RLock()
		rawBuf.Reset()
		if err := encodeRegion(&rawBuf, r); err != nil {
			r.RUnlock()
			return err
		}
		r.RUnlock()

		compBuf.Reset()
		lw := lz4.NewWriter(&compBuf)
		if _, err := lw.Write(rawBuf.Bytes()); err != nil {
			return fmt.Errorf("snapshot: compressing region: %w", err)
		}
		if err := lw.Close(); err != nil {
			return fmt.Errorf("snapshot: closing lz4 writer: %w", err)
		}

		n, err := w.Write(compBuf.Bytes())
		if err != nil {
			return fmt.Errorf("snapshot: writing region block: %w", err)
		}
		index.Regions = append(index.Regions, regionIndexEntry{
			BaseAddress: r.BaseAddress,
			Size:        r.RegionSize,
			Offset:      offset,
			Length:      int64(n),
		})
		offset += int64(n)
	}

	footer, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("snapshot: encoding footer: %w", err)
	}
	fn, err := w.Write(footer)
	if err != nil {
		return fmt.Errorf("snapshot: writing footer: %w", err)
	}
	return binary.Write(w, binary.BigEndian, int64(fn))
}

func encodeRegion(buf *bytes.Buffer, r *Region) error {
	filtersJSON, err := json.Marshal(r.Filters)
	if err != nil {
		return fmt.Errorf("snapshot: encoding filters: %w", err)
	}
	var header [24]byte
	binary.BigEndian.PutUint64(header[0:8], r.BaseAddress)
	binary.BigEndian.PutUint64(header[8:16], r.RegionSize)
	binary.BigEndian.PutUint64(header[16:24], uint64(len(filtersJSON)))
	buf.Write(header[:])
	buf.Write(filtersJSON)
	buf.Write(r.Current)
	return nil
}

// Import reads a .mscan file written by Export and reconstructs a Snapshot.
func Import(r io.ReadSeeker) (*Snapshot, error) {
	if _, err := r.Seek(-8, io.SeekEnd); err != nil {
		return nil, fmt.Errorf("snapshot: seeking to footer length: %w", err)
	}
	var footerLen int64
	if err := binary.Read(r, binary.BigEndian, &footerLen); err != nil {
		return nil, fmt.Errorf("snapshot: reading footer length: %w", err)
	}
	if _, err := r.Seek(-(8 + footerLen), io.SeekEnd); err != nil {
		return nil, fmt.Errorf("snapshot: seeking to footer: %w", err)
	}
	footerBytes := make([]byte, footerLen)
	if _, err := io.ReadFull(r, footerBytes); err != nil {
		return nil, fmt.Errorf("snapshot: reading footer: %w", err)
	}
	var index snapshotIndex
	if err := json.Unmarshal(footerBytes, &index); err != nil {
		return nil, fmt.Errorf("snapshot: decoding footer: %w", err)
	}

	regions := make([]*Region, 0, len(index.Regions))
	for _, entry := range index.Regions {
		if _, err := r.Seek(entry.Offset, io.SeekStart); err != nil {
			return nil, fmt.Errorf("snapshot: seeking to region block: %w", err)
		}
		compData := make([]byte, entry.Length)
		if _, err := io.ReadFull(r, compData); err != nil {
			return nil, fmt.Errorf("snapshot: reading region block: %w", err)
		}
		region, err := decodeRegion(compData)
		if err != nil {
			return nil, err
		}
		regions = append(regions, region)
	}

	snap := New()
	snap.ReplaceRegions(regions)
	return snap, nil
}

func decodeRegion(compData []byte) (*Region, error) {
	lr := lz4.NewReader(bytes.NewReader(compData))
	raw, err := io.ReadAll(lr)
	if err != nil {
		return nil, fmt.Errorf("snapshot: decompressing region: %w", err)
	}
	if len(raw) < 24 {
		return nil, fmt.Errorf("snapshot: truncated region block")
	}
	base := binary.BigEndian.Uint64(raw[0:8])
	size := binary.BigEndian.Uint64(raw[8:16])
	filtersLen := binary.BigEndian.Uint64(raw[16:24])
	cursor := 24 + filtersLen
	if uint64(len(raw)) < cursor+size {
		return nil, fmt.Errorf("snapshot: region block shorter than declared size")
	}
	filtersJSON := raw[24:cursor]

	region := NewRegion(base, size)
	if err := json.Unmarshal(filtersJSON, &region.Filters); err != nil {
		return nil, fmt.Errorf("snapshot: decoding filters: %w", err)
	}
	copy(region.Current, raw[cursor:cursor+size])
	return region, nil
}
