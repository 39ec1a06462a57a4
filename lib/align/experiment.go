//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package align

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// DefaultExperiment names the experiment of a single input file.
const DefaultExperiment = "Exp1"

// Experiment is a named group of alignment files. The position of an
// experiment in a list is its ordinal in count vectors.
type Experiment struct {
	Name  string
	Paths []string
}

// SingleExperiment returns one experiment holding path.
func SingleExperiment(path string) []Experiment {
	return []Experiment{{Name: DefaultExperiment, Paths: []string{path}}}
}

// Names returns experiment names in ordinal order.
func Names(experiments []Experiment) []string {
	names := make([]string, len(experiments))
	for i, e := range experiments {
		names[i] = e.Name
	}
	return names
}

// LoadExperiments reads a tabulated "<experiment>\t<path>" list. Lines with less
// than two fields or starting with "#" are skipped. Experiments are ordered by
// first appearance, files in list order.
func LoadExperiments(lpath string) (experiments []Experiment, err error) {
	lfos, err := os.Open(lpath)
	if err != nil {
		return nil, err
	}
	defer lfos.Close()

	index := make(map[string]int)
	tscanner := bufio.NewScanner(lfos)
	for tscanner.Scan() {
		fields := strings.Split(tscanner.Text(), "\t")
		if len(fields) < 2 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		i, ok := index[fields[0]]
		if !ok {
			i = len(experiments)
			index[fields[0]] = i
			experiments = append(experiments, Experiment{Name: fields[0]})
		}
		experiments[i].Paths = append(experiments[i].Paths, fields[1])
	}
	if err = tscanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", lpath)
	}
	if len(experiments) == 0 {
		return nil, errors.Errorf("no alignment file listed in %s", lpath)
	}
	return experiments, nil
}
