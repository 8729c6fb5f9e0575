// Completion: 100% - pipeline wired end to end
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xyproto/fwpeel/internal/bootloader"
	"github.com/xyproto/fwpeel/internal/config"
	"github.com/xyproto/fwpeel/internal/diag"
	"github.com/xyproto/fwpeel/internal/firmware"
	"github.com/xyproto/fwpeel/internal/fwerr"
	"github.com/xyproto/fwpeel/internal/lzss"
	"github.com/xyproto/fwpeel/internal/pjl"
	"github.com/xyproto/fwpeel/internal/srecord"
)

const versionString = "fwpeel 1.0.0"

func main() {
	var inputFlag = flag.String("in", "", "path to the printer job blob to unwrap")
	var outputDirFlag = flag.String("out", "unwrapped", "directory to write memory-image dumps into")
	var outputDirLongFlag = flag.String("output-dir", "", "long form of -out")
	var verbose = flag.Bool("v", false, "verbose mode (show per-stage diagnostics)")
	var verboseLong = flag.Bool("verbose", false, "verbose mode (show per-stage diagnostics)")
	var versionShort = flag.Bool("V", false, "print version information and exit")
	var version = flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *versionShort || *version {
		fmt.Println(versionString)
		return
	}

	if *outputDirLongFlag != "" {
		*outputDirFlag = *outputDirLongFlag
	}

	in := *inputFlag
	if in == "" {
		args := flag.Args()
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "usage: fwpeel -in <blob> [-out <dir>]")
			os.Exit(1)
		}
		in = args[0]
	}

	cfg := config.Load()
	if *verbose || *verboseLong {
		cfg.Verbose = true
	}
	logger := &diag.StderrLogger{NoColor: cfg.NoColor}

	if err := run(in, *outputDirFlag, cfg, logger); err != nil {
		fmt.Fprintln(os.Stderr, "fwpeel:", err)
		os.Exit(1)
	}
}

func run(inputPath, outDir string, cfg config.Config, logger diag.Logger) error {
	blob, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	cmds, err := pjl.Parse(blob)
	if err != nil {
		return fmt.Errorf("parsing PJL stream: %w", err)
	}
	if cfg.Verbose {
		logger.Warnf("parsed %d PJL commands", len(cmds))
	}
	for _, c := range cmds {
		var params []pjl.Param
		switch v := c.(type) {
		case pjl.AsteriskB:
			params = v.Params
		case pjl.AsteriskR:
			params = v.Params
		}
		for _, p := range params {
			if u, ok := p.(pjl.Unknown); ok {
				logger.Skipped(c.Offset(), "unrecognized PJL parameter %q", u.Bytes)
			}
		}
	}

	bitmap, err := pjl.ExtractBitmap(cmds)
	if err != nil {
		return fmt.Errorf("extracting bitmap: %w", err)
	}

	records, err := srecord.Parse(bitmap)
	if err != nil {
		var fe *fwerr.Error
		if !errors.As(err, &fe) || fe.Kind.Fatal() {
			return fmt.Errorf("parsing s-records: %w", err)
		}
		logger.Warnf("s-record parse stopped early: %v", err)
	}
	if cfg.Verbose {
		logger.Warnf("parsed %d s-records", len(records))
	}

	flashStream := srecord.ConcatBinary(records)

	header, err := firmware.ParseHeader(flashStream)
	if err != nil {
		return fmt.Errorf("parsing firmware header: %w", err)
	}

	fw, err := firmware.Carve(flashStream, header)
	if err != nil {
		return fmt.Errorf("carving firmware: %w", err)
	}
	if cfg.Verbose {
		logger.Warnf("carved %d bytes of firmware, load_addr=%s exec_addr=%s", len(fw), header.LoadAddr, header.ExecAddr)
	}

	segments, err := firmware.WalkSegments(fw, header, cfg.SegmentTableBase)
	if err != nil {
		return fmt.Errorf("walking segment table: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(outDir, "segments"), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "firmware"), fw, 0o644); err != nil {
		return fmt.Errorf("writing carved firmware: %w", err)
	}

	for _, seg := range segments {
		if seg.Size == 0 {
			logger.Skipped(-1, "segment %q has size 0", seg.Name)
			continue
		}
		if seg.Start < header.LoadAddr {
			logger.Skipped(-1, "segment %q starts before the load address", seg.Name)
			continue
		}
		startOff, err := seg.Start.ToBufferOffset(header.LoadAddr)
		if err != nil {
			logger.Skipped(-1, "segment %q: %v", seg.Name, err)
			continue
		}
		end := int(startOff) + int(seg.Size)
		if end > len(fw) {
			logger.Skipped(-1, "segment %q runs past the end of the firmware buffer", seg.Name)
			continue
		}

		decompressed := lzss.Decompress(fw[int(startOff):end])
		path := filepath.Join(outDir, "segments", strings.ReplaceAll(seg.Name, ".", "_"))
		if err := os.WriteFile(path, decompressed, 0o644); err != nil {
			return fmt.Errorf("writing segment %q: %w", seg.Name, err)
		}
	}

	appHeader, err := bootloader.Locate(fw)
	if err != nil {
		return fmt.Errorf("locating application header: %w", err)
	}
	protected, err := bootloader.ReadProtectedRanges(fw, appHeader, header.LoadAddr)
	if err != nil {
		return fmt.Errorf("reading protected ranges: %w", err)
	}
	artifacts, warnings, err := bootloader.Replay(fw, appHeader, header.LoadAddr, protected, logger)
	if err != nil {
		return fmt.Errorf("replaying boot-loader triplets: %w", err)
	}
	for _, w := range warnings.Warnings() {
		logger.Warnf("%v", w)
	}

	for dst, data := range artifacts {
		path := filepath.Join(outDir, fmt.Sprintf("%08x.bin", uint32(dst)))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing artifact at %s: %w", dst, err)
		}
	}

	fmt.Printf("Mapped binary base to %s, with entry point at %s.\n", header.LoadAddr, appHeader.EntryPoint)
	return nil
}
