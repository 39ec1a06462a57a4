//
// Copyright (C) 2015-2021 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"git.sr.ht/~vejnar/WinAbacus/lib/scan"
)

type runReport struct {
	Experiments []string    `json:"experiments"`
	Pooled      scan.Report `json:"pooled"`
	Counting    scan.Report `json:"counting"`
	Positions   int         `json:"positions"`
	Genes       int         `json:"genes"`
	Windows     int         `json:"windows"`
}

// WriteReport writes the run statistics as JSON to pathReport (stdout with "-").
func WriteReport(pathReport string, experiments []string, res *Result) error {
	report, err := json.MarshalIndent(runReport{
		Experiments: experiments,
		Pooled:      res.Pooled,
		Counting:    res.Counting,
		Positions:   res.Positions,
		Genes:       res.NumGene,
		Windows:     res.NumWindow,
	}, "", "  ")
	if err != nil {
		return err
	}
	if pathReport != "-" {
		f, err := os.Create(pathReport)
		if err != nil {
			return err
		}
		_, err = f.Write(report)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return err
	} else {
		fmt.Println(string(report))
	}
	return nil
}
