package main

import (
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/nfnt/resize"

	"github.com/stanislav-moro/e-shop/internal/models"
	"github.com/stanislav-moro/e-shop/internal/store"
)

func main() {
	addProductCmd := flag.NewFlagSet("add-product", flag.ExitOnError)
	prodTitle := addProductCmd.String("title", "", "Product title")
	prodDesc := addProductCmd.String("description", "", "Product description")
	prodPrice := addProductCmd.Float64("price", -1, "Initial price (omit to leave the product unpriced)")
	prodImage := addProductCmd.String("image", "", "Path to a product image (png/jpg); imported into static/uploads")

	setPriceCmd := flag.NewFlagSet("set-price", flag.ExitOnError)
	priceProductID := setPriceCmd.Int("product-id", 0, "Product ID")
	priceValue := setPriceCmd.Float64("price", -1, "New price")

	addCustomerCmd := flag.NewFlagSet("add-customer", flag.ExitOnError)
	custFirst := addCustomerCmd.String("first-name", "", "First name")
	custLast := addCustomerCmd.String("last-name", "", "Last name")
	custPhone := addCustomerCmd.String("phone", "", "Phone, e.g. '8 (926) 791-48-54'")
	custEmail := addCustomerCmd.String("email", "", "Email (unique)")
	custPassword := addCustomerCmd.String("password", "", "Password")

	if len(os.Args) < 2 {
		fmt.Println("expected 'add-product', 'set-price' or 'add-customer' subcommand")
		os.Exit(1)
	}

	db := openStore()

	switch os.Args[1] {
	case "add-product":
		addProductCmd.Parse(os.Args[2:])
		if *prodTitle == "" {
			fmt.Println("title is required")
			addProductCmd.PrintDefaults()
			os.Exit(1)
		}
		addProduct(db, *prodTitle, *prodDesc, *prodPrice, *prodImage)
	case "set-price":
		setPriceCmd.Parse(os.Args[2:])
		if *priceProductID <= 0 || *priceValue < 0 {
			fmt.Println("product-id and a non-negative price are required")
			setPriceCmd.PrintDefaults()
			os.Exit(1)
		}
		if err := db.SetPrice(*priceProductID, *priceValue, time.Now()); err != nil {
			log.Fatalf("Failed to set price: %v", err)
		}
		fmt.Printf("Price for product %d set to %.2f\n", *priceProductID, *priceValue)
	case "add-customer":
		addCustomerCmd.Parse(os.Args[2:])
		if *custEmail == "" || *custPassword == "" {
			fmt.Println("email and password are required")
			addCustomerCmd.PrintDefaults()
			os.Exit(1)
		}
		addCustomer(db, *custFirst, *custLast, *custPhone, *custEmail, *custPassword)
	default:
		fmt.Println("expected 'add-product', 'set-price' or 'add-customer' subcommand")
		os.Exit(1)
	}
}

func openStore() *store.Store {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./shop.db"
	}

	db, err := store.NewStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	// Ensure schema exists if running cli before server
	if err := db.Migrate("migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func addProduct(db *store.Store, title, description string, price float64, imagePath string) {
	imageURL := ""
	if imagePath != "" {
		url, err := importImage(imagePath)
		if err != nil {
			log.Fatalf("Failed to import image: %v", err)
		}
		imageURL = url
	}

	product := &models.Product{
		Title:       title,
		Description: description,
		ImageURL:    imageURL,
	}
	if err := db.CreateProduct(product); err != nil {
		log.Fatalf("Failed to create product: %v", err)
	}

	if price >= 0 {
		if err := db.SetPrice(product.ProductID, price, time.Now()); err != nil {
			log.Fatalf("Product %d created but setting price failed: %v", product.ProductID, err)
		}
	}

	fmt.Printf("Product created with ID %d\n", product.ProductID)
}

// importImage decodes, shrinks to max width 800 and stores the image as JPEG
// under static/uploads, returning the URL to store on the product.
func importImage(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var img image.Image
	switch filepath.Ext(path) {
	case ".png":
		img, err = png.Decode(f)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(f)
	default:
		return "", fmt.Errorf("unsupported image format %q (png, jpg, jpeg allowed)", filepath.Ext(path))
	}
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	resized := resize.Resize(800, 0, img, resize.Lanczos3)

	filename := fmt.Sprintf("%s.jpg", uuid.New().String())
	uploadPath := filepath.Join("static/uploads", filename)
	if err := os.MkdirAll("static/uploads", 0o755); err != nil {
		return "", err
	}

	out, err := os.Create(uploadPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if err := jpeg.Encode(out, resized, &jpeg.Options{Quality: 80}); err != nil {
		return "", err
	}
	return "/static/uploads/" + filename, nil
}

func addCustomer(db *store.Store, first, last, phone, email, password string) {
	customer := &models.Customer{
		FirstName: first,
		LastName:  last,
		Phone:     phone,
		Email:     email,
	}
	if err := db.CreateCustomer(customer, password); err != nil {
		log.Fatalf("Failed to create customer: %v", err)
	}
	fmt.Printf("Customer created with ID %d\n", customer.CustomerID)
}
