// Package main provides a command-line utility to inspect UVFITS
// random-groups files. It prints the primary header, the group geometry and,
// on request, the parameters and values of one group.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/scigolib/uvrip"
	"github.com/scigolib/uvrip/internal/utils"
)

func main() {
	group := flag.Uint64("group", 0, "1-based group to dump (0 dumps the header only)")
	length := flag.Int("length", 12, "Number of data values to print from the group")
	hex := flag.Bool("hex", false, "Also hex-dump the raw bytes of the printed values")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Println("Usage: dump_uvfits [flags] <file.uvfits>")
		fmt.Println("Flags:")
		flag.PrintDefaults()
		return
	}

	file := args[0]
	f, err := uvrip.Open(file)
	if err != nil {
		log.Fatalf("Failed to open file: %v", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Failed to close file: %v", err)
		}
	}()

	for _, c := range f.Header().Cards() {
		switch {
		case c.HasValue && c.Comment != "":
			fmt.Printf("%-8s = %-20s / %s\n", c.Key, c.Value, c.Comment)
		case c.HasValue:
			fmt.Printf("%-8s = %s\n", c.Key, c.Value)
		default:
			fmt.Printf("%-8s %s\n", c.Key, c.Comment)
		}
	}

	layout := f.Layout()
	fmt.Printf("\nBITPIX %d, axes %v, %d parameters, %d groups of %d values\n",
		layout.Bitpix, layout.Axes, layout.PCount, layout.GCount, f.GroupDataLen())
	fmt.Printf("Data: bytes %d..%d\n", layout.DataStart, layout.DataEnd())

	if *group == 0 {
		return
	}
	if *length < 1 {
		log.Fatalf("Invalid length: %d", *length)
	}

	params, err := f.ReadGroupParameters(*group)
	if err != nil {
		log.Fatalf("Failed to read group %d: %v", *group, err)
	}
	fmt.Printf("\nGroup %d parameters:\n", *group)
	for i, p := range params {
		name, _, _ := f.HeaderString(fmt.Sprintf("PTYPE%d", i+1))
		fmt.Printf("  %-8s %g\n", name, p)
	}

	count := uint64(*length)
	if count > f.GroupDataLen() {
		count = f.GroupDataLen()
		fmt.Printf("Warning: requested length %d exceeds group length. Dumping %d values.\n", *length, count)
	}
	values, anyNull, err := f.ReadGroup(*group, 1, count, 0)
	if err != nil {
		log.Fatalf("Failed to read group %d: %v", *group, err)
	}
	fmt.Printf("Group %d data (first %d values, undefined: %v):\n", *group, count, anyNull)
	for i := 0; i < len(values); i += uvrip.FloatsPerPolarization {
		end := min(i+uvrip.FloatsPerPolarization, len(values))
		fmt.Printf("  %6d: %v\n", i+1, values[i:end])
	}

	if *hex {
		offset, err := layout.DataOffset(*group, 1, count)
		if err != nil {
			log.Fatalf("Failed to locate group %d: %v", *group, err)
		}
		raw, err := readRaw(file, offset, int64(count)*layout.ElementSize())
		if err != nil {
			log.Fatalf("Read error: %v", err)
		}
		hexDump(raw, offset)
	}
}

func readRaw(file string, offset, n int64) ([]byte, error) {
	//nolint:gosec // G304: User-provided filename is intentional for a dump tool
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, n)
	if err := utils.ReadFullAt(f, buf, offset); err != nil {
		return nil, err
	}
	return buf, nil
}

func hexDump(buf []byte, offset int64) {
	for i := 0; i < len(buf); i += 16 {
		end := min(i+16, len(buf))
		chunk := buf[i:end]

		fmt.Printf("%08x: ", offset+int64(i))
		for j := 0; j < 16; j++ {
			if j < len(chunk) {
				fmt.Printf("%02x ", chunk[j])
			} else {
				fmt.Print("   ")
			}
			if j == 7 {
				fmt.Print(" ")
			}
		}
		fmt.Print(" |")

		for _, b := range chunk {
			if b >= 32 && b <= 126 {
				fmt.Printf("%c", b)
			} else {
				fmt.Print(".")
			}
		}
		fmt.Println("|")
	}
}
