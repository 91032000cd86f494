package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Dataset file names used by the fixtures
const (
	ProductsFile    = "products.csv"
	AislesFile      = "aisles.csv"
	DepartmentsFile = "departments.csv"
	OrdersFile      = "orders.csv"
	OrderLinesFile  = "order_products__prior.csv"
)

// BasketFiles returns a small dataset keyed by file name.
//
// Orders 10 and 20 contain organic products; order 10 also holds a
// non-organic banana. Order 30 holds only chips. One line references an
// unknown product and one an unknown order, both of which the merge drops.
// The spices aisle has no products at all.
func BasketFiles() map[string]string {
	return map[string]string{
		ProductsFile: "product_id,product_name,aisle_id,department_id\n" +
			"1,Organic Apple,1,1\n" +
			"2,Banana,1,1\n" +
			"3,Organic Milk,2,2\n" +
			"4,Chips,3,3\n",
		AislesFile: "aisle_id,aisle\n" +
			"1,fresh fruits\n" +
			"2,milk\n" +
			"3,chips pretzels\n" +
			"4,spices seasonings\n",
		DepartmentsFile: "department_id,department\n" +
			"1,produce\n" +
			"2,dairy eggs\n" +
			"3,snacks\n",
		OrdersFile: "order_id,user_id,eval_set,order_number,order_dow,order_hour_of_day,days_since_prior_order\n" +
			"10,100,prior,1,0,9,\n" +
			"20,100,prior,2,1,14,7.0\n" +
			"30,200,prior,1,1,14,\n",
		OrderLinesFile: "order_id,product_id,add_to_cart_order,reordered\n" +
			"10,1,1,1\n" +
			"10,2,2,0\n" +
			"20,3,1,1\n" +
			"30,4,1,0\n" +
			"30,99,2,0\n" +
			"999,1,1,0\n",
	}
}

// WriteDataset writes files into a fresh temporary directory and returns it
func WriteDataset(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		WriteFile(t, dir, name, content)
	}
	return dir
}

// WriteFile writes a single file under dir
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
	return path
}
