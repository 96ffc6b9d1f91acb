package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"storebot_backend/platform/apperr"
	"storebot_backend/platform/logger"
)

// FileRepository stores the catalog in a single JSON file. The whole catalog
// is held in memory and rewritten in full after every mutation (write-through,
// no batching). Product and variant order in the file is insertion order.
type FileRepository struct {
	mu       sync.Mutex
	path     string
	products []Product
	log      *logger.Logger
}

// NewFile loads the catalog from path. A missing, empty, or malformed file is
// replaced with the built-in seed catalog so the bot never starts without a
// usable catalog.
func NewFile(path string, log *logger.Logger) *FileRepository {
	repo := &FileRepository{path: path, log: log}

	data, err := os.ReadFile(path)
	if err == nil && len(bytes.TrimSpace(data)) > 0 {
		products, parseErr := unmarshalCatalog(data)
		if parseErr == nil {
			repo.products = products
			return repo
		}
		log.StoreError("load catalog", parseErr)
	} else if err != nil && !os.IsNotExist(err) {
		log.StoreError("load catalog", err)
	}

	repo.products = seedCatalog()
	if err := repo.save(); err != nil {
		log.StoreError("seed catalog", err)
	}
	return repo
}

// seedCatalog is the catalog the store starts with when no durable state
// exists yet.
func seedCatalog() []Product {
	return []Product{
		{
			Name:        "Spotify",
			Description: "Akun Spotify Premium",
			Variants: []Variant{
				{Code: "1BSpo", Price: 50000, Info: "1 Bulan"},
				{Code: "2BSpo", Price: 100000, Info: "2 Bulan"},
				{Code: "3BSpo", Price: 150000, Info: "3 Bulan"},
			},
		},
	}
}

// Products returns a copy of all products in insertion order. Returned
// products do not share variant storage with the repository, so callers may
// read them without holding the lock.
func (r *FileRepository) Products() []Product {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Product, len(r.products))
	for i, p := range r.products {
		out[i] = p.clone()
	}
	return out
}

// FindProduct returns the product whose name matches case-insensitively.
func (r *FileRepository) FindProduct(name string) (Product, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if idx := r.indexOf(name); idx >= 0 {
		return r.products[idx].clone(), true
	}
	return Product{}, false
}

// FindVariant returns the first (product, variant) pair matching the code in
// catalog order. Write-time validation keeps codes globally unique, so a
// second match should not exist.
func (r *FileRepository) FindVariant(code string) (Product, Variant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if v, ok := p.FindVariant(code); ok {
			return p.clone(), v, true
		}
	}
	return Product{}, Variant{}, false
}

// UpsertProduct inserts or replaces a product and persists the catalog.
func (r *FileRepository) UpsertProduct(product Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(product.Variants))
	for _, v := range product.Variants {
		lower := strings.ToLower(v.Code)
		if _, dup := seen[lower]; dup {
			return apperr.Conflict(fmt.Sprintf("kode varian %q muncul dua kali", v.Code))
		}
		seen[lower] = struct{}{}

		if owner, ok := r.variantOwner(v.Code); ok && !equalFold(owner, product.Name) {
			return apperr.Conflict(fmt.Sprintf("kode varian %q sudah dipakai produk %q", v.Code, owner))
		}
	}

	// Clone so later caller-side mutations of the argument cannot reach
	// repository state.
	if idx := r.indexOf(product.Name); idx >= 0 {
		r.products[idx] = product.clone()
	} else {
		r.products = append(r.products, product.clone())
	}

	return r.persist()
}

// DeleteProduct removes a product and persists the catalog.
func (r *FileRepository) DeleteProduct(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(name)
	if idx < 0 {
		return apperr.NotFound(fmt.Sprintf("produk %q tidak ditemukan", name))
	}

	r.products = append(r.products[:idx], r.products[idx+1:]...)
	return r.persist()
}

// RenameVariant deletes the old variant code and inserts the updated variant
// in its place, then persists the catalog.
func (r *FileRepository) RenameVariant(productName, oldCode string, updated Variant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(productName)
	if idx < 0 {
		return apperr.NotFound(fmt.Sprintf("produk %q tidak ditemukan", productName))
	}
	product := r.products[idx]

	variantIdx := -1
	for i, v := range product.Variants {
		if equalFold(v.Code, oldCode) {
			variantIdx = i
			break
		}
	}
	if variantIdx < 0 {
		return apperr.NotFound(fmt.Sprintf("varian %q tidak ditemukan dalam produk %q", oldCode, product.Name))
	}

	if !equalFold(updated.Code, oldCode) {
		if owner, ok := r.variantOwner(updated.Code); ok {
			return apperr.Conflict(fmt.Sprintf("kode varian %q sudah dipakai produk %q", updated.Code, owner))
		}
	}

	product.Variants[variantIdx] = updated
	r.products[idx] = product
	return r.persist()
}

// persist writes the catalog through to disk. On failure the in-memory state
// is reloaded from the file so memory never diverges from durable state.
func (r *FileRepository) persist() error {
	if err := r.save(); err != nil {
		r.log.StoreError("save catalog", err)
		if data, readErr := os.ReadFile(r.path); readErr == nil {
			if products, parseErr := unmarshalCatalog(data); parseErr == nil {
				r.products = products
			}
		}
		return apperr.Wrap(apperr.KindInternal, "gagal menyimpan katalog", err)
	}
	return nil
}

func (r *FileRepository) save() error {
	raw, err := marshalCatalog(r.products)
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".catalog-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(pretty.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), r.path)
}

func (r *FileRepository) indexOf(name string) int {
	for i, p := range r.products {
		if equalFold(p.Name, name) {
			return i
		}
	}
	return -1
}

func (r *FileRepository) variantOwner(code string) (string, bool) {
	for _, p := range r.products {
		if _, ok := p.FindVariant(code); ok {
			return p.Name, true
		}
	}
	return "", false
}

func equalFold(a, b string) bool {
	return strings.EqualFold(a, b)
}

// variantPayload is the on-disk shape of a variant.
type variantPayload struct {
	Price int    `json:"price"`
	Info  string `json:"info"`
}

// marshalCatalog renders the catalog as a JSON object mapping product name to
// {description, variants}, writing keys in catalog order. encoding/json maps
// would lose that order, so the object is built by hand.
func marshalCatalog(products []Product) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range products {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, p.Name); err != nil {
			return nil, err
		}
		buf.WriteString(`{"description":`)
		if err := writeJSON(&buf, p.Description); err != nil {
			return nil, err
		}
		buf.WriteString(`,"variants":{`)
		for j, v := range p.Variants {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, v.Code); err != nil {
				return nil, err
			}
			if err := writeJSON(&buf, variantPayload{Price: v.Price, Info: v.Info}); err != nil {
				return nil, err
			}
		}
		buf.WriteString("}}")
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	if err := writeJSON(buf, key); err != nil {
		return err
	}
	buf.WriteByte(':')
	return nil
}

func writeJSON(buf *bytes.Buffer, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

// unmarshalCatalog walks the JSON object with a token decoder so product and
// variant insertion order survives the round trip.
func unmarshalCatalog(data []byte) ([]Product, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var products []Product
	for dec.More() {
		name, err := nextKey(dec)
		if err != nil {
			return nil, err
		}

		product, err := decodeProduct(dec, name)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return products, nil
}

func decodeProduct(dec *json.Decoder, name string) (Product, error) {
	product := Product{Name: name}

	if err := expectDelim(dec, '{'); err != nil {
		return Product{}, err
	}

	for dec.More() {
		key, err := nextKey(dec)
		if err != nil {
			return Product{}, err
		}

		switch key {
		case "description":
			if err := dec.Decode(&product.Description); err != nil {
				return Product{}, err
			}
		case "variants":
			variants, err := decodeVariants(dec)
			if err != nil {
				return Product{}, err
			}
			product.Variants = variants
		default:
			var skipped json.RawMessage
			if err := dec.Decode(&skipped); err != nil {
				return Product{}, err
			}
		}
	}

	if err := expectDelim(dec, '}'); err != nil {
		return Product{}, err
	}
	return product, nil
}

func decodeVariants(dec *json.Decoder) ([]Variant, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var variants []Variant
	for dec.More() {
		code, err := nextKey(dec)
		if err != nil {
			return nil, err
		}

		var payload variantPayload
		if err := dec.Decode(&payload); err != nil {
			return nil, err
		}
		variants = append(variants, Variant{Code: code, Price: payload.Price, Info: payload.Info})
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return variants, nil
}

func nextKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("catalog file: expected object key, got %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != want {
		return fmt.Errorf("catalog file: expected %q, got %v", want, tok)
	}
	return nil
}
