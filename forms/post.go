package forms

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Shkitskiy94/hw05-final/models"
	"github.com/Shkitskiy94/hw05-final/storage"
	"github.com/Shkitskiy94/hw05-final/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	MaxImageSize     = 10 << 20
	msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
	msgInvalidImage  = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
)

var allowedImageExtensions = map[string]bool{".gif": true, ".jpg": true, ".jpeg": true, ".png": true}

type PostForm struct {
	Form
	Text    string                `form:"text"`
	GroupID string                `form:"group"`
	Image   *multipart.FileHeader `form:"-"`
	Groups  []models.Group        `form:"-"` // choices for the group select

	group       *models.Group
	imageFormat string // decoder name of Image
}

// NewPostForm loads the group choices and the initial values of post,
// which may be nil for a new post.
func NewPostForm(post *models.Post) (*PostForm, error) {
	groups, err := models.GroupList()
	if err != nil {
		return nil, err
	}
	f := &PostForm{Groups: groups}
	if post != nil {
		f.Text = post.Text
		if post.GroupID != nil {
			f.GroupID = strconv.FormatUint(*post.GroupID, 10)
		}
	}
	return f, nil
}

// Bind replaces the initial values with the submitted ones, a missing
// field counts as empty.
func (f *PostForm) Bind(c *gin.Context) error {
	f.Text, f.GroupID = "", ""
	if err := c.ShouldBind(f); err != nil {
		return err
	}
	file, err := c.FormFile("image")
	if err != nil && !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	f.Image = file
	return nil
}

func (f *PostForm) IsSelected(groupID uint64) bool {
	return f.GroupID == strconv.FormatUint(groupID, 10)
}

func (f *PostForm) Validate() bool {
	f.Text = strings.TrimSpace(f.Text)
	if f.Text == "" {
		f.AddError("text", "Post text cannot be empty")
	}
	f.validateGroup()
	f.validateImage()
	return f.IsValid()
}

func (f *PostForm) validateGroup() {
	f.group = nil
	if f.GroupID == "" {
		return
	}
	id, err := strconv.ParseUint(f.GroupID, 10, 64)
	if err != nil {
		f.AddError("group", msgInvalidChoice)
		return
	}
	g, err := models.GroupByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		f.AddError("group", msgInvalidChoice)
		return
	}
	if err != nil {
		f.AddError(NonFieldErrors, "Could not check the group, try again later.")
		return
	}
	f.group = &g
}

func (f *PostForm) validateImage() {
	if f.Image == nil {
		return
	}
	f.imageFormat = ""
	ext := strings.ToLower(filepath.Ext(f.Image.Filename))
	if !allowedImageExtensions[ext] {
		f.AddError("image", fmt.Sprintf("File extension \"%s\" is not allowed. Allowed extensions are: gif, jpg, jpeg, png.", strings.TrimPrefix(ext, ".")))
		return
	}
	if f.Image.Size > MaxImageSize {
		f.AddError("image", "The uploaded file is too large.")
		return
	}
	file, err := f.Image.Open()
	if err != nil {
		f.AddError("image", "The submitted file is empty.")
		return
	}
	defer file.Close()
	format, err := utils.ImageFormat(file)
	if err != nil {
		f.AddError("image", msgInvalidImage)
		return
	}
	if _, ok := storage.ImageExtension(format); !ok {
		f.AddError("image", msgInvalidImage)
		return
	}
	f.imageFormat = format
}

// Apply copies validated values into post and stores a newly uploaded
// image. It returns the path of the image that was replaced, if any.
func (f *PostForm) Apply(post *models.Post, store storage.StorageAPI) (replaced string, err error) {
	post.Text = f.Text
	post.SetGroup(f.group)
	if f.Image == nil {
		return "", nil
	}
	file, err := f.Image.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()
	path, ok := storage.NewImagePath(f.imageFormat)
	if !ok {
		return "", errors.New("image was not validated")
	}
	if _, err = store.Save(path, file); err != nil {
		return "", err
	}
	replaced = post.Image
	post.Image = path
	post.ThumbSize = 0
	post.ThumbWidth = 0
	post.ThumbHeight = 0
	return replaced, nil
}

type CommentForm struct {
	Form
	Text string `form:"text"`
}

func (f *CommentForm) Bind(c *gin.Context) error {
	return c.ShouldBind(f)
}

func (f *CommentForm) Validate() bool {
	f.Text = strings.TrimSpace(f.Text)
	f.required("text", f.Text)
	return f.IsValid()
}
