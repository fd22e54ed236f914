package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	config "github.com/anjiri1684/course_platform/configs"
	"github.com/anjiri1684/course_platform/database"
	"github.com/anjiri1684/course_platform/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog/log"
)

var certificateTemplatePath = "templates/certificate.html"

type certificateData struct {
	StudentName    string
	InstructorName string
	CourseTitle    string
	CompletionDate string
}

// IssueCourseCertificate renders, uploads and records a completion
// certificate. It runs in the background so failures are only logged.
func IssueCourseCertificate(student models.User, course models.Course) {
	var existing models.Certificate
	if err := database.DB.Where("user_id = ? AND course_id = ?", student.ID, course.ID).First(&existing).Error; err == nil {
		return
	}

	completedAt := time.Now()
	htmlData, err := renderCertificateHTML(certificateData{
		StudentName:    student.UserName,
		InstructorName: course.InstructorName,
		CourseTitle:    course.Title,
		CompletionDate: completedAt.Format("January 2, 2006"),
	})
	if err != nil {
		log.Error().Err(err).Msg("🔥 Failed to render certificate HTML")
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Error().Err(err).Msg("🔥 Failed to generate certificate PDF")
		return
	}

	uploadURL, err := uploadToCloudinary(pdfBytes, student.ID.String(), course.ID.String())
	if err != nil {
		log.Error().Err(err).Msg("🔥 Failed to upload certificate to Cloudinary")
		return
	}

	certificate := models.Certificate{
		UserID:         student.ID,
		CourseID:       course.ID,
		CourseTitle:    course.Title,
		CompletionDate: completedAt,
		CertificateURL: uploadURL,
	}
	if err := database.DB.Create(&certificate).Error; err != nil {
		log.Error().Err(err).Str("user_id", student.ID.String()).Msg("🔥 Failed to create certificate record")
		return
	}
	log.Info().Str("user_id", student.ID.String()).Str("course", course.Title).Msg("✅ Issued course certificate")
}

func renderCertificateHTML(data certificateData) (string, error) {
	tmpl, err := template.ParseFiles(certificateTemplatePath)
	if err != nil {
		return "", err
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, 30*time.Second)
	defer cancelTimeout()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).WithLandscape(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadToCloudinary(fileBytes []byte, userID, courseID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploader.UploadParams{
		PublicID:     fmt.Sprintf("%s_%s", userID, courseID),
		Folder:       "course_certificates",
		ResourceType: "raw",
	})
	if err != nil {
		return "", err
	}
	return uploadResult.SecureURL, nil
}
