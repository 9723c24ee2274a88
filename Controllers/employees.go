package Controllers

import (
	"strconv"

	"Turno/Models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type EmployeeController struct {
	DB *gorm.DB
}

func NewEmployeeController(db *gorm.DB) *EmployeeController {
	return &EmployeeController{DB: db}
}

type CreateEmployeeRequest struct {
	Name     string `json:"name" validate:"required"`
	SectorID uint   `json:"sector_id"`
}

func (ec *EmployeeController) GetEmployees(ctx *fiber.Ctx) error {
	var employees []Models.Employee
	if err := ec.DB.Order("name ASC").Find(&employees).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch employees",
			"error":   err.Error(),
		})
	}
	return ctx.JSON(employees)
}

func (ec *EmployeeController) CreateEmployee(ctx *fiber.Ctx) error {
	var req CreateEmployeeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
			"code":    "validation_error",
		})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Employee name is required",
			"code":    "validation_error",
		})
	}

	employee := Models.Employee{Name: req.Name, SectorID: req.SectorID}
	if err := ec.DB.Create(&employee).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create employee",
			"error":   err.Error(),
			"code":    "store_write_failure",
		})
	}

	return ctx.Status(fiber.StatusCreated).JSON(employee)
}

func (ec *EmployeeController) DeleteEmployee(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid employee ID",
			"code":    "validation_error",
		})
	}

	var employee Models.Employee
	if err := ec.DB.First(&employee, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Employee not found",
		})
	}

	ec.DB.Delete(&employee)
	return ctx.JSON(fiber.Map{"message": "Employee deleted successfully"})
}
