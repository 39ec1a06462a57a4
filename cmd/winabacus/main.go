//
// Copyright © 2015 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/grailbio/base/log"

	"git.sr.ht/~vejnar/WinAbacus/lib/align"
	"git.sr.ht/~vejnar/WinAbacus/lib/feature"
	"git.sr.ht/~vejnar/WinAbacus/lib/scan"
	"git.sr.ht/~vejnar/WinAbacus/lib/window"
)

var version = "DEV"

func main() {
	// Arguments: General
	var pathReport string
	var nWorker, verboseLevel int
	var appendOutput, verbose, printVersion bool
	flag.StringVar(&pathReport, "path_report", "", "Write report to path (stdout with -)")
	flag.IntVar(&nWorker, "num_worker", 1, "Number of worker(s)")
	flag.IntVar(&verboseLevel, "verbose_level", 0, "Verbose level")
	flag.BoolVar(&appendOutput, "append", false, "Append to output tables (default create)")
	flag.BoolVar(&verbose, "verbose", false, "Verbose")
	flag.BoolVar(&printVersion, "version", false, "Print version and quit")
	// Arguments: Input
	var pathIn, pathAlignments, rawSAMCmdIn, pathGeneMapping, pathAnnotation, formatAnnotation, fonName, fonChrom, fonStrand, fonCoords string
	flag.StringVar(&pathIn, "path_in", "", "Path to a single SAM/BAM file (experiment Exp1)")
	flag.StringVar(&pathAlignments, "path_alignments", "", "Path to list of alignment files: <experiment>\\t<SAM/BAM path> per line")
	flag.StringVar(&rawSAMCmdIn, "sam_command_in", "", "Command line to execute for opening each of the SAM file (comma separated)")
	flag.StringVar(&pathGeneMapping, "path_gene_mapping", "", "Path to gene-to-transcript mapping table (UCSC refGene columns)")
	flag.StringVar(&pathAnnotation, "path_annotation", "", "Path to annotation file")
	flag.StringVar(&formatAnnotation, "format_annotation", "BED", "Format of annotation file: 'BED' or 'FON'")
	flag.StringVar(&fonName, "fon_name", "transcript_stable_id", "FON key for feature name")
	flag.StringVar(&fonChrom, "fon_chrom", "chrom", "FON key for chromosome or locus")
	flag.StringVar(&fonStrand, "fon_strand", "strand", "FON key for strand")
	flag.StringVar(&fonCoords, "fon_coords", "exons", "FON key for coordinates (exons for example)")
	// Arguments: Read selection
	var quality int
	var multimapRaw string
	var unstranded bool
	flag.IntVar(&quality, "quality", -1, "Minimum alignment quality: reads must have a mapping quality greater than this value (default no filtering)")
	flag.StringVar(&multimapRaw, "multimap", "normal", "Multimapped reads: 'normal', 'ignore' or 'scale'")
	flag.BoolVar(&unstranded, "unstranded", false, "Unstranded library (default stranded)")
	// Arguments: Windows
	var taskRaw string
	wp := window.DefaultParams()
	flag.StringVar(&taskRaw, "task", "score3p", "Library type: 'score3p' or 'score5p'")
	flag.IntVar(&wp.Length, "window_length", wp.Length, "Window length")
	flag.IntVar(&wp.Overlap, "window_overlap", wp.Overlap, "Window overlap")
	flag.IntVar(&wp.Extension, "window_extension", wp.Extension, "Extension past end of transcript")
	flag.BoolVar(&wp.All, "all_windows", false, "Keep all significant windows (default only the highest count window of overlapping windows)")
	flag.Float64Var(&wp.MinPValue, "min_pvalue", wp.MinPValue, "Minimum allowable p-value for window significance")
	// Arguments: Output
	var outBase, outCompression string
	flag.StringVar(&outBase, "out", "", "Output basename (writes <out>.window.txt and <out>.gene.txt)")
	flag.StringVar(&outCompression, "output_compression", "", "Output compression: 'lz4', 'lz4hc' or 'gz' (default none)")
	// Arguments: Parse
	flag.Parse()

	// Version
	if printVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Verbose
	if verbose && verboseLevel == 0 {
		verboseLevel = 1
	}

	// Max CPU
	runtime.GOMAXPROCS(nWorker * 2)

	// Time start
	timeStart := time.Now()

	// Check arguments
	if flag.NArg() > 0 {
		log.Fatalf("unparsed arguments: %s", strings.Join(flag.Args(), " "))
	}
	if outBase == "" {
		log.Fatal("No output basename (see out option)")
	}
	// Experiments
	var experiments []align.Experiment
	var err error
	if pathAlignments != "" {
		if experiments, err = align.LoadExperiments(pathAlignments); err != nil {
			log.Fatal(err)
		}
	} else if pathIn != "" {
		experiments = align.SingleExperiment(pathIn)
	} else {
		log.Fatal("No SAM/BAM input (see path_in or path_alignments options)")
	}
	for _, exp := range experiments {
		for _, p := range exp.Paths {
			if _, err := os.Stat(p); os.IsNotExist(err) {
				log.Fatalf("%s not found", p)
			}
		}
	}
	var src align.Source
	if len(rawSAMCmdIn) > 0 {
		src.Command = strings.Split(rawSAMCmdIn, ",")
	}
	src.Workers = Max(1, nWorker/2)
	// Read selection
	filter := scan.Filter{Stranded: !unstranded}
	if quality >= 0 {
		filter.Quality = true
		filter.MinQuality = quality
	}
	if filter.Multimap, err = scan.ParseMultimap(multimapRaw); err != nil {
		log.Fatal(err)
	}
	// Windows
	if wp.Task, err = window.ParseTask(taskRaw); err != nil {
		log.Fatal(err)
	}
	wp.Stranded = filter.Stranded
	if err = wp.Validate(); err != nil {
		log.Fatal(err)
	}
	if wp.MinPValue < 1 {
		log.Printf("Warning: no p-value test available, windows with a positive pooled count are kept")
	}

	// Open annotation
	var genes []*feature.Gene
	if pathGeneMapping != "" && pathAnnotation != "" {
		log.Fatal("Use either a gene mapping or an annotation file, not both")
	} else if pathGeneMapping != "" {
		transcripts, err := feature.OpenGeneMapping(pathGeneMapping)
		if err != nil {
			log.Fatal(err)
		}
		t := time.Now()
		genes = feature.MergeIsoforms(transcripts)
		if verboseLevel > 0 {
			log.Printf("%.1fmin - Collapsing %d transcripts into %d genes took %.1f sec", time.Since(timeStart).Minutes(), len(transcripts), len(genes), time.Since(t).Seconds())
		}
	} else if pathAnnotation != "" {
		switch strings.ToLower(formatAnnotation) {
		case "bed":
			genes, err = feature.OpenBED(pathAnnotation)
		case "fon":
			genes, err = feature.OpenFON(pathAnnotation, fonName, fonChrom, fonStrand, fonCoords)
		default:
			log.Fatalf("Unknown annotation format %s", formatAnnotation)
		}
		if err != nil {
			log.Fatal(err)
		}
	} else {
		log.Fatal("Either an annotation file or gene-to-transcript mapping file must be provided")
	}

	// Count
	cfg := Config{
		Experiments:    experiments,
		Source:         src,
		Genes:          genes,
		Filter:         filter,
		Window:         wp,
		Tester:         window.CountTester{},
		NumWorker:      nWorker,
		OutBase:        outBase,
		OutCompression: outCompression,
		AppendOutput:   appendOutput,
		TimeStart:      timeStart,
		VerboseLevel:   verboseLevel,
	}
	res, err := Run(context.Background(), cfg)
	if err != nil {
		log.Fatal(err)
	}

	// Output: Report
	if pathReport != "" {
		if err = WriteReport(pathReport, align.Names(experiments), res); err != nil {
			log.Fatal(err)
		}
	}

	// Verbose
	if verboseLevel > 0 {
		log.Printf("%.1fmin - Done %d windows on %d genes", time.Since(timeStart).Minutes(), res.NumWindow, res.NumGene)
	}
}

func Max(x, y int) int {
	if x > y {
		return x
	}
	return y
}
