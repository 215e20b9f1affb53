package services

// Services defined in this package:
// - AuthService: registration, login and refresh token rotation
// - CourseService: course lifecycle, lessons, enrollment and reviews
// - UserService: profile, preferences and study statistics
// - UploadService: validated uploads into blob storage
