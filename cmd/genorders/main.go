// Command genorders writes a synthetic order export for dry runs of blorders.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"strconv"
)

// SKU parts combined into plausible marketplace SKUs.
var (
	apparel  = []string{"KOSZ_MES_B", "KOSZ_MES_C", "KOSZ_DAM_B", "KOSZ_DAM_C", "KOSZ_DZIEC_B", "BLUZA_B", "BLUZA_C"}
	cups     = []string{"V1_KB_ZW", "V1_KB_MAG", "V2_KB_FUN_C", "KB_GOLD"}
	designs  = []string{"ZAJZAW_GEODE", "PSY_LZ_TOARG", "MAMA", "TATA", "KOT", "PLAZA"}
	adult    = []string{"S", "M", "L", "XL", "XXL"}
	children = []string{"3-4", "5-6", "7-8", "9-11"}
)

func main() {
	var (
		count      int
		outputFile string
		seed       uint64
		header     bool
	)
	flag.IntVar(&count, "count", 100, "number of order rows to generate")
	flag.StringVar(&outputFile, "output", "orders.csv", "output file")
	flag.Uint64Var(&seed, "seed", 1, "random seed")
	flag.BoolVar(&header, "header", true, "write the Polish header row")
	flag.Parse()

	if err := generateOrders(count, outputFile, rand.New(rand.NewPCG(seed, seed)), header); err != nil {
		log.Fatalf("generation failed: %v", err)
	}
}

func generateOrders(count int, outputFile string, rnd *rand.Rand, header bool) error {
	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	w.Comma = ';'
	if header {
		if err := w.Write([]string{"Nr zamówienia", "Ilość sztuk nadruku", "SKU"}); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	orderID := 10000
	for i := 0; i < count; i++ {
		// A customer order usually has a few lines.
		if rnd.IntN(3) == 0 {
			orderID++
		}
		row := []string{strconv.Itoa(orderID), strconv.Itoa(1 + rnd.IntN(3)), randomSKU(rnd)}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write order %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	log.Printf("generated %d order rows to %s", count, outputFile)
	return nil
}

func randomSKU(rnd *rand.Rand) string {
	design := designs[rnd.IntN(len(designs))]
	if rnd.IntN(4) == 0 {
		cup := cups[rnd.IntN(len(cups))]
		return fmt.Sprintf("%s_%s_%02d%s", cup, design, 1+rnd.IntN(12), letter(cup, rnd))
	}
	product := apparel[rnd.IntN(len(apparel))]
	size := adult[rnd.IntN(len(adult))]
	if product == "KOSZ_DZIEC_B" {
		size = children[rnd.IntN(len(children))]
	}
	return fmt.Sprintf("%s_%s_%02d%s_%s", product, design, 1+rnd.IntN(12), letter(product, rnd), size)
}

// letter picks the color suffix matching the product variant.
func letter(product string, rnd *rand.Rand) string {
	switch product[len(product)-1] {
	case 'B':
		return "B"
	case 'C':
		return "C"
	}
	if rnd.IntN(2) == 0 {
		return "B"
	}
	return "C"
}
