package dto

type CreateTeamRequest struct {
	Name  string `json:"name" binding:"required"`
	Admin string `json:"admin" binding:"required"`
}

type JoinTeamRequest struct {
	TeamID   string `json:"teamId" binding:"required"`
	Username string `json:"username" binding:"required"`
}

type LeaveTeamRequest struct {
	TeamID   string `json:"teamId" binding:"required"`
	Username string `json:"username" binding:"required"`
}
