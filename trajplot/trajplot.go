/*
 * trajplot.go, part of oxdna-trajectory-reader.
 *
 * Copyright 2023 The oxdna-trajectory-reader developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package trajplot extracts per-configuration time series from a trajectory
//and plots them. oxDNA writes the energy header as total, potential and
//kinetic energy per nucleotide, which is the series plotted here.
package trajplot

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	oxdna "github.com/ywei1081/oxdna-trajectory-reader"
)

// EnergySeries walks the whole trajectory and collects the timestamp and
// energy vector of every configuration, in file order.
func EnergySeries(T *oxdna.Trajectory) ([]int64, [][3]float64, error) {
	var times []int64
	var energies [][3]float64
	iter := T.Iter()
	for {
		conf, err := iter.Next()
		if err != nil {
			if _, ok := err.(oxdna.LastFrameError); ok {
				break
			}
			return times, energies, err
		}
		times = append(times, conf.Time)
		energies = append(energies, conf.Energy)
	}
	return times, energies, nil
}

var energyLabels = [3]string{"total", "potential", "kinetic"}

// EnergyPlot plots the three energy components of every configuration in T
// against simulation time and saves the result to plotname. The output
// format follows the file extension, as understood by gonum/plot (.png,
// .pdf, .svg and friends).
func EnergyPlot(T *oxdna.Trajectory, title, plotname string) error {
	times, energies, err := EnergySeries(T)
	if err != nil {
		return err
	}
	p := plot.New()
	p.Title.Text = title
	p.Title.Padding = 3 * vg.Millimeter
	p.X.Label.Text = "time / steps"
	p.Y.Label.Text = "energy per nucleotide"
	for comp := 0; comp < 3; comp++ {
		pts := make(plotter.XYs, len(times))
		for i := range times {
			pts[i].X = float64(times[i])
			pts[i].Y = energies[i][comp]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(comp)
		p.Add(line)
		p.Legend.Add(energyLabels[comp], line)
	}
	return p.Save(15*vg.Centimeter, 10*vg.Centimeter, plotname)
}
