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
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/cheggaaa/pb/v3"
	"github.com/google/uuid"

	"github.com/exascience/hpcorrector/correct"
	"github.com/exascience/hpcorrector/fasta"
	"github.com/exascience/hpcorrector/internal"
	"github.com/exascience/hpcorrector/reads"
	"github.com/exascience/hpcorrector/report"
)

// CorrectHelp is the help string for this command.
const CorrectHelp = "correct parameters:\n" +
	"hpcorrector correct ccs-files subread-files reference-file fasta-output-file\n" +
	"[--policy [ratio | voting]]\n" +
	"[--min-reads nr]\n" +
	"[--min-error-rate rate]\n" +
	"[--max-deletion-ratio ratio]\n" +
	"[--min-hp-length nr]\n" +
	"[--max-length-difference nr]\n" +
	"[--exclude-references list]\n" +
	"[--align-to-reference]\n" +
	"[--report tsv-file]\n" +
	"[--progress]\n" +
	"[--verbose]\n" +
	"[--nr-of-threads nr]\n" +
	"[--timed]\n" +
	"[--profile file]\n" +
	"[--log-path path]\n"

// loadExperiment expands the file lists and loads the experiment.
func loadExperiment(ccsList, subReadList, referenceFile string) (*reads.Experiment, error) {
	ccsFiles, err := internal.ExpandFiles(ccsList, ccsSuffixes...)
	if err != nil {
		return nil, err
	}
	subReadFiles, err := internal.ExpandFiles(subReadList, subReadSuffixes...)
	if err != nil {
		return nil, err
	}
	if len(ccsFiles) == 0 {
		return nil, fmt.Errorf("no CCS files found in %v", ccsList)
	}
	log.Printf("Loading %v CCS files and %v subread files\n", len(ccsFiles), len(subReadFiles))
	return reads.LoadExperiment(ccsFiles, subReadFiles, referenceFile)
}

// cancelOnSignal returns a context that is canceled on an interrupt.
func cancelOnSignal() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-signals:
			log.Println("Received", sig, "- stopping after the reads in progress")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(signals)
	}()
	return ctx, cancel
}

// Correct implements the hpcorrector correct command.
func Correct() error {
	var (
		policyName                     string
		minReads                       int
		minErrorRate, maxDeletionRatio float64
		minHpLength, maxLengthDiff     int
		excludeReferences              string
		alignToReference               bool
		reportFile                     string
		progress, verbose              bool
		nrOfThreads                    int
		timed                          bool
		profile                        string
		logPath                        string
	)

	var flags flag.FlagSet

	flags.StringVar(&policyName, "policy", "ratio", "decision policy, one of ratio or voting")
	flags.IntVar(&minReads, "min-reads", correct.DefaultMinReadsNeeded, "minimum number of subreads with an indel before a homopolymer (ratio policy)")
	flags.Float64Var(&minErrorRate, "min-error-rate", correct.DefaultMinErrorPercentage, "fraction of aligned subreads with an indel that must be exceeded (ratio policy)")
	flags.Float64Var(&maxDeletionRatio, "max-deletion-ratio", correct.DefaultMaxDeletionRatio, "maximum fraction of deletions among the indels (ratio policy)")
	flags.IntVar(&minHpLength, "min-hp-length", correct.MinimumHomopolymerLength, "minimum length of a homopolymer to be considered")
	flags.IntVar(&maxLengthDiff, "max-length-difference", correct.DefaultMaxLengthDifference, "maximum length difference between a subread and its consensus")
	flags.StringVar(&excludeReferences, "exclude-references", correct.DefaultExcludedReference, "comma-separated list of references whose reads are not corrected")
	flags.BoolVar(&alignToReference, "align-to-reference", false, "also align every subread to the reference and log the alignment")
	flags.StringVar(&reportFile, "report", "", "write a correction report to the specified file")
	flags.BoolVar(&progress, "progress", false, "show a progress bar")
	flags.BoolVar(&verbose, "verbose", false, "log the evidence for each homopolymer")
	flags.IntVar(&nrOfThreads, "nr-of-threads", 0, "number of worker threads")
	flags.BoolVar(&timed, "timed", false, "measure the runtime")
	flags.StringVar(&profile, "profile", "", "write a runtime profile to the specified file(s)")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")

	parseFlags(&flags, 6, CorrectHelp)

	ccsList := getFilename(os.Args[2], CorrectHelp)
	subReadList := getFilename(os.Args[3], CorrectHelp)
	referenceFile := getFilename(os.Args[4], CorrectHelp)
	output := getFilename(os.Args[5], CorrectHelp)

	setLogOutput(logPath)

	// sanity checks

	var sanityChecksFailed bool

	if !checkExistList("", ccsList) {
		sanityChecksFailed = true
	}
	if !checkExistList("", subReadList) {
		sanityChecksFailed = true
	}
	if !checkExist("", referenceFile) {
		sanityChecksFailed = true
	}
	if !checkCreate("", output) {
		sanityChecksFailed = true
	}
	if reportFile != "" && !checkCreate("--report", reportFile) {
		sanityChecksFailed = true
	}
	if profile != "" && !checkCreate("--profile", profile) {
		sanityChecksFailed = true
	}

	ratio := correct.RatioPolicy{
		MinReadsNeeded:     minReads,
		MinErrorPercentage: minErrorRate,
		MaxDeletionRatio:   maxDeletionRatio,
	}
	policy, err := correct.PolicyByName(policyName, ratio)
	if err != nil {
		sanityChecksFailed = true
		log.Println("Error:", err)
	}
	if minReads < 0 {
		sanityChecksFailed = true
		log.Println("Error: Invalid min-reads: ", minReads)
	}
	if maxDeletionRatio < 0 || maxDeletionRatio > 1 {
		sanityChecksFailed = true
		log.Println("Error: Invalid max-deletion-ratio: ", maxDeletionRatio)
	}
	if minHpLength < 2 {
		sanityChecksFailed = true
		log.Println("Error: Invalid min-hp-length: ", minHpLength)
	}
	if maxLengthDiff < 0 {
		sanityChecksFailed = true
		log.Println("Error: Invalid max-length-difference: ", maxLengthDiff)
	}
	if nrOfThreads < 0 {
		sanityChecksFailed = true
		log.Println("Error: Invalid nr-of-threads: ", nrOfThreads)
	}
	if policyName == "voting" && (minReads != correct.DefaultMinReadsNeeded || minErrorRate != correct.DefaultMinErrorPercentage || maxDeletionRatio != correct.DefaultMaxDeletionRatio) {
		log.Println("Warning: The ratio policy thresholds are ignored with --policy voting.")
	}

	if sanityChecksFailed {
		fmt.Fprint(os.Stderr, CorrectHelp)
		os.Exit(1)
	}

	// building and logging the command line

	var command bytes.Buffer
	fmt.Fprint(&command, os.Args[0], " correct ", ccsList, " ", subReadList, " ", referenceFile, " ", output)
	fmt.Fprint(&command, " --policy ", policyName)
	if policyName == "ratio" {
		fmt.Fprint(&command, " --min-reads ", minReads, " --min-error-rate ", minErrorRate, " --max-deletion-ratio ", maxDeletionRatio)
	}
	fmt.Fprint(&command, " --min-hp-length ", minHpLength, " --max-length-difference ", maxLengthDiff)
	fmt.Fprint(&command, " --exclude-references \"", excludeReferences, "\"")
	if alignToReference {
		fmt.Fprint(&command, " --align-to-reference")
	}
	if reportFile != "" {
		fmt.Fprint(&command, " --report ", reportFile)
	}
	if progress {
		fmt.Fprint(&command, " --progress")
	}
	if verbose {
		fmt.Fprint(&command, " --verbose")
	}
	if nrOfThreads > 0 {
		runtime.GOMAXPROCS(nrOfThreads)
		fmt.Fprint(&command, " --nr-of-threads ", nrOfThreads)
	}
	if timed {
		fmt.Fprint(&command, " --timed")
	}
	if profile != "" {
		fmt.Fprint(&command, " --profile ", profile)
	}
	if logPath != "" {
		fmt.Fprint(&command, " --log-path ", logPath)
	}

	run := uuid.New()
	log.Println("Executing command:\n", command.String())
	log.Println("Run", run)

	options := correct.DefaultOptions()
	options.MinHomopolymerLength = minHpLength
	options.MaxLengthDifference = maxLengthDiff
	options.ExcludeReferences = nil
	for _, ref := range strings.Split(excludeReferences, ",") {
		if ref = strings.TrimSpace(ref); ref != "" {
			options.ExcludeReferences = append(options.ExcludeReferences, ref)
		}
	}
	options.AlignToReference = alignToReference
	options.Threads = nrOfThreads
	options.Verbose = verbose

	return runCorrect(ccsList, subReadList, referenceFile, output, reportFile, run, options, policy, progress, timed, profile)
}

func runCorrect(ccsList, subReadList, referenceFile, output, reportFile string, run uuid.UUID, options correct.Options, policy correct.Policy, progress, timed bool, profile string) (err error) {
	var exp *reads.Experiment
	timedRun(timed, profile, "Loading reads.", 1, func() {
		exp, err = loadExperiment(ccsList, subReadList, referenceFile)
	})
	if err != nil {
		return err
	}

	fastaWriter, err := fasta.Create(output)
	if err != nil {
		return err
	}
	defer func() {
		if nerr := fastaWriter.Close(); err == nil {
			err = nerr
		}
	}()
	sink := correct.MultiSink{correct.RecordSink{RecordWriter: fastaWriter}}
	if reportFile != "" {
		reportWriter, rerr := report.Create(reportFile, run)
		if rerr != nil {
			return rerr
		}
		defer func() {
			if nerr := reportWriter.Close(); err == nil {
				err = nerr
			}
		}()
		sink = append(sink, reportWriter)
	}

	corrector := correct.NewCorrector(options, policy)
	if progress {
		bar := pb.Full.Start64(int64(len(exp.Reads)))
		corrector.ReadDone = func() { bar.Increment() }
		defer bar.Finish()
	}

	ctx, cancel := cancelOnSignal()
	defer cancel()

	var summary correct.Summary
	timedRun(timed, profile, "Correcting reads.", 2, func() {
		summary, err = corrector.Run(ctx, exp.Reads, sink)
	})

	log.Printf("Reads: %v, corrected: %v, unchanged: %v, skipped: %v, failed: %v\n",
		summary.Reads, summary.Corrected, summary.Unchanged, summary.Skipped, len(summary.Failed))
	log.Printf("Fixed homopolymers: %v\n", corrector.Counter.Get())
	log.Printf("Records written: %v\n", fastaWriter.Records())
	if err != nil {
		return fmt.Errorf("%v, while correcting reads", err)
	}
	if len(summary.Failed) > 0 {
		return fmt.Errorf("%v of %v reads failed, first failure: %v", len(summary.Failed), summary.Reads, summary.Failed[0])
	}
	return nil
}
