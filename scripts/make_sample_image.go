// Generates small sample archive images for exercising the nxfs CLI by hand:
//
//	go run scripts/make_sample_image.go ./sample.pfs0
//	go run scripts/make_sample_image.go -hashed ./sample.hfs0
package main

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"flag"
	"fmt"
	"os"

	"github.com/deploymenttheory/go-nxfs/internal/types"
)

var hashed = flag.Bool("hashed", false, "emit an HFS0 image with per-entry digests")

type member struct {
	name    string
	content []byte
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: make_sample_image [-hashed] <output-path>")
		os.Exit(2)
	}

	members := []member{
		{"readme.txt", []byte("sample partition archive\n")},
		{"data.bin", bytes.Repeat([]byte{0xA5, 0x5A}, 512)},
		{"empty.dat", nil},
	}

	if err := os.WriteFile(flag.Arg(0), buildImage(members, *hashed), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s with %d entries\n", flag.Arg(0), len(members))
}

func buildImage(members []member, hashed bool) []byte {
	var pool bytes.Buffer
	nameOffsets := make([]uint32, len(members))
	for i, m := range members {
		nameOffsets[i] = uint32(pool.Len())
		pool.WriteString(m.name)
		pool.WriteByte(0)
	}
	for pool.Len()%4 != 0 {
		pool.WriteByte(0)
	}

	magic := types.PartitionMagic
	if hashed {
		magic = types.Sha256PartitionMagic
	}

	var image bytes.Buffer
	image.WriteString(magic)
	binary.Write(&image, binary.LittleEndian, uint32(len(members)))
	binary.Write(&image, binary.LittleEndian, uint32(pool.Len()))
	binary.Write(&image, binary.LittleEndian, uint32(0))

	offset := uint64(0)
	for i, m := range members {
		binary.Write(&image, binary.LittleEndian, offset)
		binary.Write(&image, binary.LittleEndian, uint64(len(m.content)))
		binary.Write(&image, binary.LittleEndian, nameOffsets[i])
		if hashed {
			digest := sha256.Sum256(m.content)
			binary.Write(&image, binary.LittleEndian, uint32(len(m.content)))
			binary.Write(&image, binary.LittleEndian, uint64(0))
			image.Write(digest[:])
		} else {
			binary.Write(&image, binary.LittleEndian, uint32(0))
		}
		offset += uint64(len(m.content))
	}
	image.Write(pool.Bytes())
	for _, m := range members {
		image.Write(m.content)
	}
	return image.Bytes()
}
