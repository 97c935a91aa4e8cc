package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/roster/internal/app/forms"
	"github.com/yigit/roster/internal/app/models/dto"
	"github.com/yigit/roster/internal/app/services"
	"github.com/yigit/roster/internal/middleware"
)

// StudentController handles student endpoints
type StudentController struct {
	studentService services.StudentService
	formOptions    forms.Options
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, formOptions forms.Options) *StudentController {
	return &StudentController{
		studentService: studentService,
		formOptions:    formOptions,
	}
}

// GetAllStudents lists students
// @Summary List students
// @Description Returns every student without photo bytes
// @Tags students
// @Produce json
// @Success 200 {array} models.Student
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/students [get]
func (c *StudentController) GetAllStudents(ctx *gin.Context) {
	students, err := c.studentService.GetAllStudents(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, students)
}

// GetStudentByID retrieves a student
// @Summary Get a student
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} models.Student
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/students/{id} [get]
func (c *StudentController) GetStudentByID(ctx *gin.Context) {
	id, ok := pathID(ctx, "student")
	if !ok {
		return
	}

	student, err := c.studentService.GetStudentByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, student)
}

// GetStudentImage streams the stored photo
// @Summary Get a student's photo
// @Description Returns the raw photo bytes with their stored content type
// @Tags students
// @Produce image/jpeg,image/png
// @Param id path int true "Student ID"
// @Success 200 {file} binary
// @Failure 404 {object} dto.ErrorResponse "Student or photo not found"
// @Failure 500 {object} dto.ErrorResponse "Invalid image format stored on server"
// @Router /api/students/image/{id} [get]
func (c *StudentController) GetStudentImage(ctx *gin.Context) {
	id, ok := pathID(ctx, "student")
	if !ok {
		return
	}

	photo, err := c.studentService.GetStudentPhoto(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, photo.MediaType, photo.Data)
}

// CreateStudent creates a student from a multipart submission
// @Summary Create a student
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Param studentName formData string false "Given name"
// @Param studentSurname formData string false "Surname"
// @Param studentGroup formData string false "Group id; anything that is not an integer becomes 0"
// @Param studentPhoto formData file false "JPEG or PNG photo"
// @Success 200 {object} models.Student
// @Failure 400 {object} dto.ErrorResponse "Rejected submission"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	form, err := forms.ParseStudentForm(ctx.Request, c.formOptions)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	student, err := c.studentService.CreateStudent(ctx, form)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, student)
}

// UpdateStudent replaces a student from a multipart submission
// @Summary Update a student
// @Description Omitting studentPhoto keeps the stored photo
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Student ID"
// @Param studentId formData string false "Ignored; the path id is used"
// @Param studentName formData string false "Given name"
// @Param studentSurname formData string false "Surname"
// @Param studentGroup formData string false "Group id"
// @Param studentPhoto formData file false "JPEG or PNG photo"
// @Success 200 {object} models.Student
// @Failure 400 {object} dto.ErrorResponse "Rejected submission"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := pathID(ctx, "student")
	if !ok {
		return
	}

	form, err := forms.ParseStudentForm(ctx.Request, c.formOptions)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	student, err := c.studentService.UpdateStudent(ctx, id, form)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, student)
}

// DeleteStudent deletes a student
// @Summary Delete a student
// @Description Succeeds whether or not the student exists
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := pathID(ctx, "student")
	if !ok {
		return
	}

	if err := c.studentService.DeleteStudent(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "student deleted", ID: id})
}
