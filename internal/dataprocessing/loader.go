package dataprocessing

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"basketpulse/internal/config"
	apierrors "basketpulse/internal/errors"
	"basketpulse/pkg/contracts/domain"
)

// Table names used in errors, logs and warnings
const (
	TableProducts    = "products"
	TableAisles      = "aisles"
	TableDepartments = "departments"
	TableOrders      = "orders"
	TableOrderLines  = "order_products"
)

// MaxDaysSincePrior is the cap applied to days_since_prior_order
const MaxDaysSincePrior = 30

// ctxCheckInterval is how many rows are read between context checks
const ctxCheckInterval = 1 << 16

var (
	// ErrOutOfRange marks a value outside its column's domain
	ErrOutOfRange = errors.New("value out of range")
	// ErrDuplicateKey marks a repeated primary key
	ErrDuplicateKey = errors.New("duplicate key")
)

// Tables holds the five source tables of one dataset
type Tables struct {
	Products    []domain.Product
	Aisles      []domain.Aisle
	Departments []domain.Department
	Orders      []domain.Order
	OrderLines  []domain.OrderLine
}

// RowCounts returns the number of rows per table
func (t *Tables) RowCounts() map[string]int {
	return map[string]int{
		TableProducts:    len(t.Products),
		TableAisles:      len(t.Aisles),
		TableDepartments: len(t.Departments),
		TableOrders:      len(t.Orders),
		TableOrderLines:  len(t.OrderLines),
	}
}

// Loader reads the dataset CSV files into typed tables
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With(slog.String("component", "loader"))}
}

// Load reads all five files. The first failure aborts the load and is
// returned wrapped in a load StageError.
func (l *Loader) Load(ctx context.Context, files config.DatasetFiles) (*Tables, error) {
	var (
		tables Tables
		err    error
	)

	if tables.Products, err = l.loadProducts(ctx, files.Products); err != nil {
		return nil, apierrors.NewStageError(apierrors.StageLoad, err)
	}
	if tables.Aisles, err = l.loadAisles(ctx, files.Aisles); err != nil {
		return nil, apierrors.NewStageError(apierrors.StageLoad, err)
	}
	if tables.Departments, err = l.loadDepartments(ctx, files.Departments); err != nil {
		return nil, apierrors.NewStageError(apierrors.StageLoad, err)
	}
	if tables.Orders, err = l.loadOrders(ctx, files.Orders); err != nil {
		return nil, apierrors.NewStageError(apierrors.StageLoad, err)
	}
	if tables.OrderLines, err = l.loadOrderLines(ctx, files.OrderLines); err != nil {
		return nil, apierrors.NewStageError(apierrors.StageLoad, err)
	}

	return &tables, nil
}

func (l *Loader) loadProducts(ctx context.Context, path string) ([]domain.Product, error) {
	var products []domain.Product
	seen := make(map[int64]struct{})

	err := l.readTable(ctx, TableProducts, path,
		[]string{"product_id", "product_name", "aisle_id", "department_id"},
		func(r *csvRow) error {
			id, err := r.key("product_id", seen)
			if err != nil {
				return err
			}
			aisleID, err := r.int64Value("aisle_id")
			if err != nil {
				return err
			}
			departmentID, err := r.int64Value("department_id")
			if err != nil {
				return err
			}
			products = append(products, domain.Product{
				ProductID:    id,
				ProductName:  r.str("product_name"),
				AisleID:      aisleID,
				DepartmentID: departmentID,
			})
			return nil
		})
	return products, err
}

func (l *Loader) loadAisles(ctx context.Context, path string) ([]domain.Aisle, error) {
	var aisles []domain.Aisle
	seen := make(map[int64]struct{})

	err := l.readTable(ctx, TableAisles, path, []string{"aisle_id", "aisle"},
		func(r *csvRow) error {
			id, err := r.key("aisle_id", seen)
			if err != nil {
				return err
			}
			aisles = append(aisles, domain.Aisle{AisleID: id, Aisle: r.str("aisle")})
			return nil
		})
	return aisles, err
}

func (l *Loader) loadDepartments(ctx context.Context, path string) ([]domain.Department, error) {
	var departments []domain.Department
	seen := make(map[int64]struct{})

	err := l.readTable(ctx, TableDepartments, path, []string{"department_id", "department"},
		func(r *csvRow) error {
			id, err := r.key("department_id", seen)
			if err != nil {
				return err
			}
			departments = append(departments, domain.Department{DepartmentID: id, Department: r.str("department")})
			return nil
		})
	return departments, err
}

func (l *Loader) loadOrders(ctx context.Context, path string) ([]domain.Order, error) {
	var orders []domain.Order
	seen := make(map[int64]struct{})

	err := l.readTable(ctx, TableOrders, path,
		[]string{"order_id", "user_id", "order_dow", "order_hour_of_day", "days_since_prior_order"},
		func(r *csvRow) error {
			id, err := r.key("order_id", seen)
			if err != nil {
				return err
			}
			userID, err := r.int64Value("user_id")
			if err != nil {
				return err
			}
			dow, err := r.intIn("order_dow", 0, 6)
			if err != nil {
				return err
			}
			hour, err := r.intIn("order_hour_of_day", 0, 23)
			if err != nil {
				return err
			}
			days, hasPrior, err := r.optionalInt("days_since_prior_order")
			if err != nil {
				return err
			}
			if hasPrior && days < 0 {
				return r.fail("days_since_prior_order", ErrOutOfRange)
			}
			if days > MaxDaysSincePrior {
				days = MaxDaysSincePrior
			}
			orders = append(orders, domain.Order{
				OrderID:             id,
				UserID:              userID,
				OrderDOW:            dow,
				OrderHourOfDay:      hour,
				DaysSincePriorOrder: days,
				HasPriorOrder:       hasPrior,
			})
			return nil
		})
	return orders, err
}

func (l *Loader) loadOrderLines(ctx context.Context, path string) ([]domain.OrderLine, error) {
	var lines []domain.OrderLine

	err := l.readTable(ctx, TableOrderLines, path,
		[]string{"order_id", "product_id", "add_to_cart_order", "reordered"},
		func(r *csvRow) error {
			orderID, err := r.int64Value("order_id")
			if err != nil {
				return err
			}
			productID, err := r.int64Value("product_id")
			if err != nil {
				return err
			}
			cartOrder, err := r.intValue("add_to_cart_order")
			if err != nil {
				return err
			}
			reordered, err := r.intIn("reordered", 0, 1)
			if err != nil {
				return err
			}
			lines = append(lines, domain.OrderLine{
				OrderID:        orderID,
				ProductID:      productID,
				AddToCartOrder: cartOrder,
				Reordered:      reordered == 1,
			})
			return nil
		})
	return lines, err
}

// readTable streams a CSV file, resolving the required columns from its
// header and calling fn once per data row. Extra columns are ignored.
func (l *Loader) readTable(ctx context.Context, table, path string, required []string, fn func(*csvRow) error) error {
	start := time.Now()

	file, err := os.Open(path)
	if err != nil {
		return &apierrors.MissingFileError{Table: table, Path: path, Err: err}
	}
	defer file.Close()

	reader := csv.NewReader(skipBOM(bufio.NewReaderSize(file, 1<<20)))
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return &apierrors.SchemaError{Table: table, Path: path, Columns: required}
	}
	if err != nil {
		return readFailure(table, path, err)
	}

	columns := findColumnIndices(header)
	var missing []string
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &apierrors.SchemaError{Table: table, Path: path, Columns: missing}
	}

	row := &csvRow{table: table, path: path, columns: columns}
	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return readFailure(table, path, err)
		}

		row.record = record
		row.line, _ = reader.FieldPos(0)
		if err := fn(row); err != nil {
			return err
		}

		rows++
		if rows%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}

	l.logger.InfoContext(ctx, "table loaded",
		slog.String("table", table),
		slog.String("path", path),
		slog.Int("rows", rows),
		slog.Duration("duration", time.Since(start)))

	return nil
}

// skipBOM drops a leading UTF-8 byte order mark
func skipBOM(r *bufio.Reader) *bufio.Reader {
	if b, err := r.Peek(3); err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		r.Discard(3)
	}
	return r
}

// readFailure converts a csv reader error into a dataset error
func readFailure(table, path string, err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &apierrors.ParseError{
			Table:  table,
			Path:   path,
			Line:   csvErr.Line,
			Column: strconv.Itoa(csvErr.Column),
			Err:    csvErr.Err,
		}
	}
	return &apierrors.MissingFileError{Table: table, Path: path, Err: err}
}

// findColumnIndices maps cleaned header names to their position
func findColumnIndices(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, col := range header {
		clean := strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		if _, dup := columns[clean]; !dup {
			columns[clean] = i
		}
	}
	return columns
}

// csvRow gives typed access to the current record
type csvRow struct {
	table   string
	path    string
	line    int
	record  []string
	columns map[string]int
}

func (r *csvRow) str(col string) string {
	return r.record[r.columns[col]]
}

func (r *csvRow) fail(col string, err error) error {
	return &apierrors.ParseError{
		Table:  r.table,
		Path:   r.path,
		Line:   r.line,
		Column: col,
		Value:  r.str(col),
		Err:    err,
	}
}

func (r *csvRow) int64Value(col string) (int64, error) {
	v, err := parseInteger(strings.TrimSpace(r.str(col)))
	if err != nil {
		return 0, r.fail(col, err)
	}
	return v, nil
}

func (r *csvRow) intValue(col string) (int, error) {
	v, err := r.int64Value(col)
	return int(v), err
}

func (r *csvRow) intIn(col string, min, max int) (int, error) {
	v, err := r.intValue(col)
	if err != nil {
		return 0, err
	}
	if v < min || v > max {
		return 0, r.fail(col, fmt.Errorf("%w: want %d..%d", ErrOutOfRange, min, max))
	}
	return v, nil
}

// optionalInt treats an empty cell as absent
func (r *csvRow) optionalInt(col string) (int, bool, error) {
	raw := strings.TrimSpace(r.str(col))
	if raw == "" || strings.EqualFold(raw, "nan") {
		return 0, false, nil
	}
	v, err := parseInteger(raw)
	if err != nil {
		return 0, false, r.fail(col, err)
	}
	return int(v), true, nil
}

// key parses a primary key column and rejects repeats
func (r *csvRow) key(col string, seen map[int64]struct{}) (int64, error) {
	id, err := r.int64Value(col)
	if err != nil {
		return 0, err
	}
	if _, dup := seen[id]; dup {
		return 0, r.fail(col, ErrDuplicateKey)
	}
	seen[id] = struct{}{}
	return id, nil
}

// parseInteger accepts plain integers and integral floats such as "7.0"
func parseInteger(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return v, nil
	}
	f, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil || f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64/2 {
		return 0, err
	}
	return int64(f), nil
}
