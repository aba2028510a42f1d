// hpcorrector: homopolymer length correction for CCS reads.
// Copyright (c) 2021 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/elprep/blob/master/LICENSE.txt>.

package cmd

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/exascience/pargo/pipeline"

	"github.com/exascience/hpcorrector/correct"
	"github.com/exascience/hpcorrector/reads"
)

// CountAlignmentsHelp is the help string for this command.
const CountAlignmentsHelp = "\ncount-alignments parameters:\n" +
	"hpcorrector count-alignments ccs-files subread-files reference-file\n" +
	"[--max-length-difference nr]\n" +
	"[--nr-of-threads nr]\n" +
	"[--log-path path]\n"

type readCounts struct {
	read     *reads.ConsensusRead
	statuses []correct.AlignmentStatus
}

// writeAlignmentCounts aligns the subreads of all assigned reads to
// their reference, and writes the outcome per subread to out, in the
// order of the reads.
func writeAlignmentCounts(out io.Writer, corrector *correct.Corrector, input []*reads.ConsensusRead) error {
	output := bufio.NewWriter(out)
	var p pipeline.Pipeline
	p.Source(input)
	p.SetVariableBatchSize(1, 1)
	p.Add(
		pipeline.LimitedPar(corrector.Options.Threads, pipeline.Receive(func(_ int, data interface{}) interface{} {
			var counts []readCounts
			for _, read := range data.([]*reads.ConsensusRead) {
				if read.Reference == nil {
					continue
				}
				statuses, err := corrector.CountAlignments(read)
				if err != nil {
					p.SetErr(fmt.Errorf("%v, while counting alignments of read %v", err, read.ID))
					return nil
				}
				counts = append(counts, readCounts{read: read, statuses: statuses})
			}
			return counts
		})),
		pipeline.StrictOrd(pipeline.Receive(func(_ int, data interface{}) interface{} {
			counts, _ := data.([]readCounts)
			for _, c := range counts {
				fmt.Fprintf(output, "%v,%v\n", c.read.ID, len(c.statuses))
				for i, status := range c.statuses {
					fmt.Fprintf(output, "%v,%v\n", i+1, status)
				}
			}
			return data
		})),
	)
	p.Run()
	if err := p.Err(); err != nil {
		return err
	}
	return output.Flush()
}

// CountAlignments implements the hpcorrector count-alignments command.
func CountAlignments() error {
	var (
		maxLengthDiff int
		nrOfThreads   int
		logPath       string
	)

	var flags flag.FlagSet
	flags.IntVar(&maxLengthDiff, "max-length-difference", correct.DefaultMaxLengthDifference, "maximum length difference between a subread and its consensus")
	flags.IntVar(&nrOfThreads, "nr-of-threads", 0, "number of worker threads")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")
	parseFlags(&flags, 5, CountAlignmentsHelp)

	ccsList := getFilename(os.Args[2], CountAlignmentsHelp)
	subReadList := getFilename(os.Args[3], CountAlignmentsHelp)
	referenceFile := getFilename(os.Args[4], CountAlignmentsHelp)

	setLogOutput(logPath)

	var sanityChecksFailed bool
	if !checkExistList("", ccsList) || !checkExistList("", subReadList) || !checkExist("", referenceFile) {
		sanityChecksFailed = true
	}
	if maxLengthDiff < 0 {
		sanityChecksFailed = true
		log.Println("Error: Invalid max-length-difference: ", maxLengthDiff)
	}
	if nrOfThreads < 0 {
		sanityChecksFailed = true
		log.Println("Error: Invalid nr-of-threads: ", nrOfThreads)
	}
	if sanityChecksFailed {
		fmt.Fprint(os.Stderr, CountAlignmentsHelp)
		os.Exit(1)
	}
	if nrOfThreads > 0 {
		runtime.GOMAXPROCS(nrOfThreads)
	}

	exp, err := loadExperiment(ccsList, subReadList, referenceFile)
	if err != nil {
		return err
	}
	options := correct.DefaultOptions()
	options.MaxLengthDifference = maxLengthDiff
	options.Threads = nrOfThreads
	return writeAlignmentCounts(os.Stdout, correct.NewCorrector(options, correct.DefaultRatioPolicy()), exp.Reads)
}
