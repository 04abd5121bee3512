// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vcfio reads variant records from VCF files and renders them as
// genomic HGVS descriptions for evidence lookups.
// Implements: prd004-annotation (VCF input).
package vcfio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// grch37Accessions maps chromosome names to their GRCh37 RefSeq
// accessions.
var grch37Accessions = map[string]string{
	"1":  "NC_000001.10",
	"2":  "NC_000002.11",
	"3":  "NC_000003.11",
	"4":  "NC_000004.11",
	"5":  "NC_000005.9",
	"6":  "NC_000006.11",
	"7":  "NC_000007.13",
	"8":  "NC_000008.10",
	"9":  "NC_000009.11",
	"10": "NC_000010.10",
	"11": "NC_000011.9",
	"12": "NC_000012.11",
	"13": "NC_000013.10",
	"14": "NC_000014.8",
	"15": "NC_000015.9",
	"16": "NC_000016.9",
	"17": "NC_000017.10",
	"18": "NC_000018.9",
	"19": "NC_000019.9",
	"20": "NC_000020.10",
	"21": "NC_000021.8",
	"22": "NC_000022.10",
	"X":  "NC_000023.10",
	"Y":  "NC_000024.9",
}

// Accession returns the GRCh37 RefSeq accession for a chromosome name.
// An optional "chr" prefix is tolerated; unmapped names pass through
// unchanged, so records already carrying an accession keep it.
func Accession(chrom string) string {
	name := strings.TrimPrefix(strings.TrimPrefix(chrom, "chr"), "CHR")
	if acc, ok := grch37Accessions[strings.ToUpper(name)]; ok {
		return acc
	}
	return chrom
}

// Record is one data line of a VCF file. Ref and Alt are empty when the
// file carried the "." placeholder.
type Record struct {
	Chrom string
	Pos   int
	Ref   string
	Alt   string
}

// HGVS renders the record as a genomic HGVS description against GRCh37:
// a substitution for 1:1 changes, an insertion for empty Ref, a deletion
// for empty Alt, and a deletion-insertion otherwise. Multi-base Ref
// spans get an explicit end position.
func (r Record) HGVS() string {
	var b strings.Builder
	b.WriteString(Accession(r.Chrom))
	b.WriteString(":g.")
	b.WriteString(strconv.Itoa(r.Pos))

	switch {
	case len(r.Ref) == 1 && len(r.Alt) == 1:
		b.WriteString(r.Ref)
		b.WriteString(">")
	case len(r.Ref) == 0:
		b.WriteString("ins")
	default:
		if len(r.Ref) > 1 {
			b.WriteString("_")
			b.WriteString(strconv.Itoa(r.Pos + len(r.Ref) - 1))
		}
		if len(r.Alt) == 0 {
			b.WriteString("del")
		} else {
			b.WriteString("delins")
		}
	}
	b.WriteString(r.Alt)
	return b.String()
}

// Parse reads the data lines of a VCF stream. Everything before the
// #CHROM column header is ignored; every line after it must carry at
// least the first five columns.
func Parse(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var records []Record
	inData := false
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if !inData {
			if strings.HasPrefix(line, "#CHROM") {
				inData = true
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 5 {
			return nil, fmt.Errorf("line %d: expected at least 5 tab-separated columns, got %d", lineNo, len(fields))
		}
		pos, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad position %q: %w", lineNo, fields[1], err)
		}

		rec := Record{Chrom: fields[0], Pos: pos, Ref: fields[3], Alt: fields[4]}
		if rec.Ref == "." {
			rec.Ref = ""
		}
		if rec.Alt == "." {
			rec.Alt = ""
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading VCF: %w", err)
	}
	return records, nil
}
