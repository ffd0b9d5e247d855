package handlers

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxImagesPerPart = 5

// parseMultipartSparePartRequest reads a multipart form into the same
// presence-based request the JSON path produces. Posted image files are
// stored immediately and their paths folded into ImagePaths.
func parseMultipartSparePartRequest(c *gin.Context) (SparePartRequest, error) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		log.Println("[SPAREPART] [ERROR] multipart parse failed:", err)
		return SparePartRequest{}, err
	}

	req := SparePartRequest{}

	if value, ok := c.GetPostForm("name"); ok {
		name := strings.TrimSpace(value)
		req.Name = &name
	}
	if value, ok := c.GetPostForm("description"); ok {
		description := value
		req.Description = &description
	}
	if value, ok := c.GetPostForm("dimension"); ok {
		dimension := value
		req.Dimension = &dimension
	}
	if value, ok := c.GetPostForm("color"); ok {
		color := value
		req.Color = &color
	}
	if value, ok := c.GetPostForm("brand"); ok {
		brand := value
		req.Brand = &brand
	}
	if value, ok := c.GetPostForm("gadgetType"); ok {
		gadgetType := value
		req.GadgetType = &gadgetType
	}
	if value, ok := c.GetPostForm("warrentyPeriod"); ok {
		warrentyPeriod := value
		req.WarrentyPeriod = &warrentyPeriod
	}

	if value, ok := c.GetPostForm("price"); ok {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return SparePartRequest{}, err
		}
		req.Price = &parsed
	}
	if value, ok := c.GetPostForm("discount"); ok {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return SparePartRequest{}, err
		}
		req.Discount = &parsed
	}
	if value, ok := c.GetPostForm("weight"); ok {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return SparePartRequest{}, err
		}
		req.Weight = &parsed
	}
	if value, ok := c.GetPostForm("quantity"); ok {
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return SparePartRequest{}, err
		}
		req.Quantity = &parsed
	}
	if value, ok := c.GetPostForm("isDeleted"); ok {
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return SparePartRequest{}, err
		}
		req.IsDeleted = &parsed
	}

	if form := c.Request.MultipartForm; form != nil {
		files := form.File["images"]
		if len(files) > maxImagesPerPart {
			return SparePartRequest{}, fmt.Errorf("too many images (max %d)", maxImagesPerPart)
		}
		for _, file := range files {
			path, err := saveImage(file)
			if err != nil {
				return SparePartRequest{}, err
			}
			req.ImagePaths = append(req.ImagePaths, path)
		}
	}

	return req, nil
}

func saveImage(file *multipart.FileHeader) (string, error) {
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if extension == "" {
		return "", fmt.Errorf("image file extension is required")
	}
	allowedExtensions := map[string]struct{}{
		".jpg":  {},
		".jpeg": {},
		".png":  {},
		".webp": {},
	}
	if _, ok := allowedExtensions[extension]; !ok {
		return "", fmt.Errorf("unsupported image type: %s", extension)
	}
	const maxImageSize = 5 << 20
	if file.Size > maxImageSize {
		return "", fmt.Errorf("image file too large (max 5MB)")
	}

	filename := primitive.NewObjectID().Hex() + extension

	dir := filepath.Join(publicRootDir, "uploads", "spareparts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("[UPLOAD] saveImage: failed to create directory %s: %v", dir, err)
		return "", err
	}

	fullPath := filepath.Join(dir, filename)

	out, err := os.Create(fullPath)
	if err != nil {
		log.Printf("[UPLOAD] saveImage: failed to create file %s: %v", fullPath, err)
		return "", err
	}
	defer out.Close()

	in, err := file.Open()
	if err != nil {
		log.Printf("[UPLOAD] saveImage: failed to open upload %s: %v", file.Filename, err)
		return "", err
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		log.Printf("[UPLOAD] saveImage: failed to save file %s: %v", fullPath, err)
		return "", err
	}

	return filepath.ToSlash(filepath.Join("uploads", "spareparts", filename)), nil
}
