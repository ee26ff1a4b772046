package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"fulfillment-ops/models/order"
	productModel "fulfillment-ops/models/product"
	"fulfillment-ops/models/rto"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// sizeOrder is the fixed size vocabulary; labels outside it sort after the
// known ones, stable in first-seen order.
var sizeOrder = []string{"XS", "S", "M", "L", "XL", "XXL", "XXXL", "4XL", "5XL"}

var sizeRank = func() map[string]int {
	m := make(map[string]int, len(sizeOrder))
	for i, s := range sizeOrder {
		m[s] = i
	}
	return m
}()

var (
	separatorRun = regexp.MustCompile(`[-_ ]{2,}`)
	// Fallback matching patterns against the catalog, tried in order:
	// exact SKU, SKU minus a trailing numeric variant, SKU minus a trailing
	// size + variant tail. Best-effort classifier, not an invariant join.
	trailingVariant = regexp.MustCompile(`-\d+$`)
	trailingSizeVar = regexp.MustCompile(`-[A-Z0-9]+-\d+$`)
)

// AggregatedProduct is one row of the inventory summary.
type AggregatedProduct struct {
	ProductName     string `json:"productName"`
	BaseProductName string `json:"baseProductName"`
	ImageURL        string `json:"imageUrl"`
	BaseSku         string `json:"baseSku"`
	SizeQuantity    string `json:"sizeQuantity"`
	Prefix          string `json:"prefix"`
}

// Service aggregates unclaimed order line items into a per-base-SKU size
// summary for the admin dashboard.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// NormalizeSKU collapses repeated separator characters and upper-cases the
// raw product code.
func NormalizeSKU(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	return separatorRun.ReplaceAllString(code, "-")
}

// BaseSKU strips the trailing size/variant suffix from a raw product code:
// "TSHIRT-M-1", "TSHIRT-S-1" and "TSHIRT-M" all reduce to "TSHIRT".
func BaseSKU(code string) string {
	sku := NormalizeSKU(code)
	if trailingSizeVar.MatchString(sku) {
		if trimmed := trailingSizeVar.ReplaceAllString(sku, ""); trimmed != "" {
			sku = trimmed
		}
	} else if trailingVariant.MatchString(sku) {
		if trimmed := trailingVariant.ReplaceAllString(sku, ""); trimmed != "" {
			sku = trimmed
		}
	}

	// A bare trailing size token ("TSHIRT-M") still counts as a suffix.
	if i := strings.LastIndex(sku, "-"); i > 0 {
		if _, known := sizeRank[sku[i+1:]]; known {
			sku = sku[:i]
		}
	}
	return sku
}

// SizeFromCode extracts the size token a BaseSKU reduction removed, or ""
// when the code carries none.
func SizeFromCode(code string) string {
	sku := NormalizeSKU(code)
	if m := trailingSizeVar.FindString(sku); m != "" {
		parts := strings.Split(strings.TrimPrefix(m, "-"), "-")
		return parts[0]
	}
	if i := strings.LastIndex(sku, "-"); i > 0 {
		if _, known := sizeRank[sku[i+1:]]; known {
			return sku[i+1:]
		}
	}
	return ""
}

// DetectPrefix classifies a product name; "player" wins over "fan" when
// both appear.
func DetectPrefix(name string) string {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "player") {
		return "Player"
	}
	if strings.Contains(lower, "fan") {
		return "Fan"
	}
	return ""
}

type sizeCount struct {
	size string
	qty  int
	seen int // insertion order, tie-break for unknown sizes
}

// FormatSizeQuantity renders size totals as "S-5, M-3": vocabulary order
// first, unknown labels after in first-seen order.
func FormatSizeQuantity(counts []sizeCount) string {
	sort.SliceStable(counts, func(i, j int) bool {
		ri, iKnown := sizeRank[counts[i].size]
		rj, jKnown := sizeRank[counts[j].size]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			return counts[i].seen < counts[j].seen
		}
	})

	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s-%d", c.size, c.qty))
	}
	return strings.Join(parts, ", ")
}

type group struct {
	baseSku string
	sizes   map[string]*sizeCount
	order   []*sizeCount
}

// Aggregate groups unclaimed line items by normalized base SKU and matches
// each group against the product catalog.
func (s *Service) Aggregate() (int, []AggregatedProduct, error) {
	var orders []order.Order
	err := s.DB.Where("status = ?", order.StatusUnclaimed.String()).Find(&orders).Error
	if err != nil {
		return 0, nil, err
	}

	var products []productModel.Product
	if err := s.DB.Find(&products).Error; err != nil {
		return 0, nil, err
	}

	bySku := make(map[string]productModel.Product, len(products))
	for _, p := range products {
		bySku[NormalizeSKU(p.SkuID)] = p
	}

	groups := make(map[string]*group)
	for _, o := range orders {
		base := BaseSKU(o.ProductCode)
		g, ok := groups[base]
		if !ok {
			g = &group{baseSku: base, sizes: make(map[string]*sizeCount)}
			groups[base] = g
		}

		size := strings.ToUpper(strings.TrimSpace(o.Size))
		if size == "" {
			size = SizeFromCode(o.ProductCode)
		}
		if size == "" {
			size = "NA"
		}

		sc, ok := g.sizes[size]
		if !ok {
			sc = &sizeCount{size: size, seen: len(g.order)}
			g.sizes[size] = sc
			g.order = append(g.order, sc)
		}
		sc.qty += o.Quantity
	}

	items := make([]AggregatedProduct, 0, len(groups))
	for _, g := range groups {
		matched, ok := matchProduct(bySku, g.baseSku)

		displayName := g.baseSku
		imageURL := ""
		if ok {
			displayName = matched.Name
			imageURL = matched.Image
		}

		counts := make([]sizeCount, 0, len(g.order))
		for _, sc := range g.order {
			counts = append(counts, *sc)
		}

		items = append(items, AggregatedProduct{
			ProductName:     displayName,
			BaseProductName: g.baseSku,
			ImageURL:        imageURL,
			BaseSku:         g.baseSku,
			SizeQuantity:    FormatSizeQuantity(counts),
			Prefix:          DetectPrefix(displayName),
		})
	}

	// Locale-aware ordering by display name.
	collator := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(items, func(i, j int) bool {
		return collator.CompareString(items[i].ProductName, items[j].ProductName) < 0
	})

	return len(items), items, nil
}

// matchProduct tries the three fallback patterns in order: a catalog SKU
// equal to the base, one whose numeric variant suffix reduces to the base,
// or one whose size+variant tail reduces to the base.
func matchProduct(bySku map[string]productModel.Product, base string) (productModel.Product, bool) {
	if p, ok := bySku[base]; ok {
		return p, true
	}
	for sku, p := range bySku {
		if trailingVariant.ReplaceAllString(sku, "") == base {
			return p, true
		}
	}
	for sku, p := range bySku {
		if trailingSizeVar.ReplaceAllString(sku, "") == base {
			return p, true
		}
	}
	return productModel.Product{}, false
}

// rtoColumns are the required upload headers, matched case-insensitively by
// substring.
var rtoColumns = []string{"Product_Name", "Variant_Sku", "Size", "Quantity", "Location"}

// ParseRTOCSV parses an RTO details upload into rows under a fresh batch
// id. A header row missing any required column fails the whole upload.
func ParseRTOCSV(r io.Reader) ([]rto.RTODetail, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	idx := make(map[string]int, len(rtoColumns))
	for _, want := range rtoColumns {
		for i, col := range header {
			if strings.Contains(strings.ToLower(col), strings.ToLower(want)) {
				idx[want] = i
				break
			}
		}
	}

	var missing []string
	for _, want := range rtoColumns {
		if _, ok := idx[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("Missing required columns: %s", strings.Join(missing, ", "))
	}

	batchID := uuid.NewString()
	var rows []rto.RTODetail
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line+1, err)
		}
		line++

		qty, err := strconv.Atoi(strings.TrimSpace(record[idx["Quantity"]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid quantity %q", line, record[idx["Quantity"]])
		}

		rows = append(rows, rto.RTODetail{
			BatchID:     batchID,
			ProductName: strings.TrimSpace(record[idx["Product_Name"]]),
			VariantSku:  strings.TrimSpace(record[idx["Variant_Sku"]]),
			Size:        strings.TrimSpace(record[idx["Size"]]),
			Quantity:    qty,
			Location:    strings.TrimSpace(record[idx["Location"]]),
		})
	}
	return rows, nil
}
