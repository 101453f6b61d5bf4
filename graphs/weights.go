// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graphs

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/pascalwhoop/yarl"
)

// wire format for weight persistence
type netWts struct {
	Network string     `json:"Network"`
	Version string     `json:"Version"`
	Layers  []layerWts `json:"Layers"`
}

type layerWts struct {
	Layer string      `json:"Layer"`
	Wts   []wtsRecord `json:"Wts"`
}

type wtsRecord struct {
	Name   string    `json:"Name"`
	Shape  []int     `json:"Shape"`
	Values []float32 `json:"Values"`
}

// WriteWtsJSON writes all layer weights to w as indented JSON.
func (nt *Network) WriteWtsJSON(w io.Writer) error {
	doc := netWts{Network: nt.Name(), Version: yarl.Version}
	for _, ni := range nt.order {
		ly := nt.nodes[ni].ly
		wts := ly.Weights()
		if len(wts) == 0 {
			continue
		}
		lw := layerWts{Layer: ly.Name()}
		for _, wt := range wts {
			lw.Wts = append(lw.Wts, wtsRecord{Name: wt.Nm, Shape: wt.Shp, Values: wt.Values})
		}
		doc.Layers = append(doc.Layers, lw)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	return enc.Encode(&doc)
}

// ReadWtsJSON reads weights from r and copies them into the matching
// layers.  Layer and weight names must line up with the current graph.
func (nt *Network) ReadWtsJSON(r io.Reader) error {
	var doc netWts
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return err
	}
	for _, lw := range doc.Layers {
		ly := nt.LayerByScope(lw.Layer)
		if ly == nil {
			return fmt.Errorf("network %s: weights name layer %q which is not in this graph", nt.Name(), lw.Layer)
		}
		wts := ly.Weights()
		byName := make(map[string][]float32, len(wts))
		for _, wt := range wts {
			byName[wt.Nm] = wt.Values
		}
		for _, wr := range lw.Wts {
			dst, ok := byName[wr.Name]
			if !ok {
				return fmt.Errorf("network %s: layer %q has no weights named %q", nt.Name(), lw.Layer, wr.Name)
			}
			if len(dst) != len(wr.Values) {
				return fmt.Errorf("network %s: layer %q weights %q: %d values on disk, %d in graph", nt.Name(), lw.Layer, wr.Name, len(wr.Values), len(dst))
			}
			copy(dst, wr.Values)
		}
	}
	return nil
}

// SaveWtsJSON saves network weights to a JSON-formatted file.  If
// filename has .gz extension, then file is gzip compressed.
func (nt *Network) SaveWtsJSON(filename string) error {
	fp, err := os.Create(filename)
	if err != nil {
		log.Println(err)
		return err
	}
	defer fp.Close()
	if filepath.Ext(filename) == ".gz" {
		gzr := gzip.NewWriter(fp)
		defer gzr.Close()
		return nt.WriteWtsJSON(gzr)
	}
	return nt.WriteWtsJSON(fp)
}

// OpenWtsJSON opens network weights from a JSON-formatted file.  If
// filename has .gz extension, then file is gzip uncompressed.
func (nt *Network) OpenWtsJSON(filename string) error {
	fp, err := os.Open(filename)
	if err != nil {
		log.Println(err)
		return err
	}
	defer fp.Close()
	if filepath.Ext(filename) == ".gz" {
		gzr, err := gzip.NewReader(fp)
		if err != nil {
			log.Println(err)
			return err
		}
		defer gzr.Close()
		return nt.ReadWtsJSON(gzr)
	}
	return nt.ReadWtsJSON(fp)
}
