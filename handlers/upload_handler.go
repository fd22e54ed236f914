package handlers

import (
	"net/url"
	"path"
	"strconv"
	"time"

	config "github.com/anjiri1684/course_platform/configs"
	"github.com/anjiri1684/course_platform/middleware"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const courseMediaFolder = "course_media"

// mediaFolders maps the ?kind= query value to the per-instructor subfolder.
var mediaFolders = map[string]string{
	"video": "lectures",
	"image": "covers",
}

// instructorMediaFolder is where one instructor's uploads of the given kind land.
func instructorMediaFolder(instructorID uuid.UUID, kind string) (string, bool) {
	sub, ok := mediaFolders[kind]
	if !ok {
		return "", false
	}
	return path.Join(courseMediaFolder, instructorID.String(), sub), true
}

// uploadParams builds the parameter set the browser must send back to
// Cloudinary unchanged for the signature to verify.
func uploadParams(folder string, timestamp int64) (url.Values, error) {
	params, err := api.StructToParams(uploader.UploadParams{Folder: folder})
	if err != nil {
		return nil, err
	}
	params.Set("timestamp", strconv.FormatInt(timestamp, 10))
	return params, nil
}

// GenerateUploadSignature signs a direct browser upload of lecture videos and
// course images so instructors never send media through this server. Each
// instructor is confined to their own folder.
func GenerateUploadSignature(c *fiber.Ctx) error {
	instructorID, _, err := middleware.CurrentUser(c)
	if err != nil {
		return respondError(c, fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired JWT"))
	}
	folder, ok := instructorMediaFolder(instructorID, c.Query("kind", "video"))
	if !ok {
		return respondError(c, fiber.NewError(fiber.StatusBadRequest, "kind must be video or image"))
	}

	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to initialize Cloudinary"})
	}

	timestamp := time.Now().Unix()
	params, err := uploadParams(folder, timestamp)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to prepare signature params"})
	}
	signature, err := api.SignParameters(params, cld.Config.Cloud.APISecret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to sign upload params"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"signature":  signature,
			"timestamp":  timestamp,
			"api_key":    cld.Config.Cloud.APIKey,
			"cloud_name": cld.Config.Cloud.CloudName,
			"folder":     folder,
		},
	})
}
