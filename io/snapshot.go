package io

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"unsafe"

	"github.com/phil-mansfield/stenosis/field"
)

/*
The binary format used for state snapshots is as follows:
    |-- 1 --||-- 2 --||-- ... 3 ... --||-- ... 4 ... --||-- ... 5 ... --| ...

    |-- 1 --| -  int32 flag indicating endianness of the file. 0 indicates a
                 little endian byte ordering and -1 indicates a big endian
                 byte ordering.
    |-- 2 --| -  int32 containing the size of the header in bytes.
    |-- 3 --| -  SnapshotHeader struct containing meta-information about the
                 run.
    |-- 4 --| -  Cells^2 float64 values of the occupancy field, indexed
                 x + y * Cells.
    |-- 5 --| -  The same for the x velocity, then the y velocity, the
                 pressure and the face pressure.
*/

// SnapshotFields are the names of the fields written to a snapshot, in file
// order.
var SnapshotFields = []string{"f", "u.x", "u.y", "p", "pf"}

// SnapshotHeader describes the run a snapshot was taken from.
type SnapshotHeader struct {
	Cells, Fields    int64
	Length, Reynolds float64
	Time             float64
	Steps            int64
	// State is the terminal state of the run.
	State int64
}

// endianness is a utility function converting an endianness flag to a
// byte order.
func endianness(flag int32) (binary.ByteOrder, error) {
	if flag == 0 {
		return binary.LittleEndian, nil
	} else if flag == -1 {
		return binary.BigEndian, nil
	}
	return nil, fmt.Errorf("Unrecognized endianness flag, %d.", flag)
}

// WriteSnapshot writes the header and the fields of s to file. Any existing
// file is overwritten.
func WriteSnapshot(file string, hd *SnapshotHeader, s *field.Store) error {
	n := s.Grid.Cells()
	hd.Cells = int64(n)
	hd.Fields = int64(len(SnapshotFields))

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	wr := bufio.NewWriter(f)

	endiannessFlag := int32(0)
	order, _ := endianness(endiannessFlag)

	if err = binary.Write(wr, order, endiannessFlag); err != nil {
		f.Close()
		return err
	}
	if err = binary.Write(
		wr, order, int32(unsafe.Sizeof(SnapshotHeader{})),
	); err != nil {
		f.Close()
		return err
	}
	if err = binary.Write(wr, order, hd); err != nil {
		f.Close()
		return err
	}

	for _, name := range SnapshotFields {
		xs, err := s.Field(name)
		if err != nil {
			f.Close()
			return err
		}
		if err = binary.Write(wr, order, xs); err != nil {
			f.Close()
			return err
		}
	}

	if err = wr.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadSnapshot reads a file written by WriteSnapshot. The fields are keyed
// by the names in SnapshotFields.
func ReadSnapshot(file string) (*SnapshotHeader, map[string][]float64, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	rd := bufio.NewReader(f)

	// order doesn't matter for this read, since flags are symmetric.
	var flag int32
	if err = binary.Read(rd, binary.LittleEndian, &flag); err != nil {
		return nil, nil, err
	}
	order, err := endianness(flag)
	if err != nil {
		return nil, nil, err
	}

	var headerSize int32
	if err = binary.Read(rd, order, &headerSize); err != nil {
		return nil, nil, err
	}
	if headerSize != int32(unsafe.Sizeof(SnapshotHeader{})) {
		return nil, nil, fmt.Errorf(
			"Expected SnapshotHeader size of %d, found %d in %s.",
			unsafe.Sizeof(SnapshotHeader{}), headerSize, file,
		)
	}

	hd := &SnapshotHeader{}
	if err = binary.Read(rd, order, hd); err != nil {
		return nil, nil, err
	}
	if hd.Fields != int64(len(SnapshotFields)) || hd.Cells <= 0 {
		return nil, nil, fmt.Errorf(
			"Snapshot %s has %d fields of %d cells, expected %d fields.",
			file, hd.Fields, hd.Cells, len(SnapshotFields),
		)
	}

	fields := make(map[string][]float64, len(SnapshotFields))
	for _, name := range SnapshotFields {
		xs := make([]float64, hd.Cells*hd.Cells)
		if err = binary.Read(rd, order, xs); err != nil {
			return nil, nil, fmt.Errorf("Reading '%s' from %s: %w", name, file, err)
		}
		fields[name] = xs
	}

	return hd, fields, nil
}
