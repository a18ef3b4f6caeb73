package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
)

var (
	csvFile string
)

func main() {
	csvFilePtr := flag.String("csvFile", csvFile, "file containing entries of a convergence study")
	flag.Parse()
	csvFile = *csvFilePtr
	if len(csvFile) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	fmt.Printf("Input file: %v\n", csvFile)
	studies := readCSV(csvFile)
	keys := make([]string, 0, len(studies))
	for k := range studies {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		cs := studies[key]
		fmt.Printf("Title = %s, K = %d, L = %d, Basis = %s, Mesh = %s\n",
			cs.title, cs.k, cs.l, cs.basis, cs.meshType)
		cellOrder, faceOrder := cs.Orders()
		for i := range cs.h {
			fmt.Printf("%12.5e, %14.6e, %6.2f, %14.6e, %6.2f\n",
				cs.h[i], cs.cellL2[i], cellOrder[i], cs.faceMax[i], faceOrder[i])
		}
	}
}

type ConvergenceStudy struct {
	title, basis, meshType string
	k, l                   int
	h                      []float64
	cellL2, faceMax        []float64
}

func NewConvergenceStudy(title, basis, meshType string, k, l int) *ConvergenceStudy {
	return &ConvergenceStudy{
		title:    title,
		basis:    basis,
		meshType: meshType,
		k:        k,
		l:        l,
	}
}

func (cs *ConvergenceStudy) Add(h, cellL2, faceMax float64) {
	cs.h = append(cs.h, h)
	cs.cellL2 = append(cs.cellL2, cellL2)
	cs.faceMax = append(cs.faceMax, faceMax)
}

// Orders returns the observed rates log(e0/e1)/log(h0/h1) between each entry
// and the previous one, NaN for the first entry
func (cs *ConvergenceStudy) Orders() (cellOrder, faceOrder []float64) {
	n := len(cs.h)
	cellOrder, faceOrder = make([]float64, n), make([]float64, n)
	rate := func(e []float64, i int) float64 {
		return math.Log(e[i-1]/e[i]) / math.Log(cs.h[i-1]/cs.h[i])
	}
	for i := range cs.h {
		if i == 0 {
			cellOrder[i], faceOrder[i] = math.NaN(), math.NaN()
			continue
		}
		cellOrder[i] = rate(cs.cellL2, i)
		faceOrder[i] = rate(cs.faceMax, i)
	}
	return
}

func readCSV(csvFile string) (studies map[string]*ConvergenceStudy) {
	var (
		records [][]string
		err     error
		f       *os.File
		ok      bool
		cs      *ConvergenceStudy
	)
	studies = make(map[string]*ConvergenceStudy)
	if f, err = os.Open(csvFile); err != nil {
		panic(err)
	}
	defer f.Close()
	r := csv.NewReader(bufio.NewReader(f))
	if records, err = r.ReadAll(); err != nil {
		panic(err)
	}
	for i, rec := range records {
		if i == 0 {
			continue
		}
		title, ktxt, ltxt, basis, meshType := rec[0], rec[1], rec[2], rec[3], rec[4]
		k, _ := strconv.Atoi(ktxt)
		l, _ := strconv.Atoi(ltxt)
		combTitle := title + ktxt + ltxt + basis + meshType
		if cs, ok = studies[combTitle]; !ok {
			cs = NewConvergenceStudy(title, basis, meshType, k, l)
			studies[combTitle] = cs
		}
		h, _ := strconv.ParseFloat(rec[6], 64)
		cellL2, _ := strconv.ParseFloat(rec[8], 64)
		faceMax, _ := strconv.ParseFloat(rec[9], 64)
		cs.Add(h, cellL2, faceMax)
	}
	return
}
